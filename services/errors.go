package services

import "errors"

// Sentinel errors returned by the service layer; controllers map them to
// HTTP status codes.
var (
	ErrInvalidHoursOrRate = errors.New("hours worked must be greater than zero and hourly rate must not be negative")
	ErrClaimNotFound      = errors.New("claim not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrForbidden          = errors.New("forbidden")

	// File-level errors cause the file to be skipped, never the submission
	// to fail.
	ErrUnsupportedFileType = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file size exceeds 10MB limit")
)
