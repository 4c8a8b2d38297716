package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"claim-management-api/models"
)

// Only these extensions are accepted for claim documents.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

const maxDocumentSize = int64(10 * 1024 * 1024) // 10MB

// DocumentService persists claim documents under a configured root and
// resolves them for authorized download. Stored names are random; the
// original filename is kept for display only.
type DocumentService struct {
	db   *gorm.DB
	root string
}

func NewDocumentService(db *gorm.DB, root string) *DocumentService {
	return &DocumentService{db: db, root: root}
}

// DocumentRoot returns the configured document directory, defaulting to
// ./uploads like the rest of the system.
func DocumentRoot() string {
	root := os.Getenv("UPLOAD_PATH")
	if root == "" {
		root = "./uploads"
	}
	return root
}

// Save validates and stores one uploaded file for a claim. Unsupported or
// oversize files return ErrUnsupportedFileType / ErrFileTooLarge; the caller
// skips those without failing the submission. The first saved document also
// populates the claim's legacy single-path field.
func (s *DocumentService) Save(claim *models.Claim, file *multipart.FileHeader) (*models.ClaimDocument, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFileType
	}
	if file.Size > maxDocumentSize {
		return nil, ErrFileTooLarge
	}

	if err := os.MkdirAll(s.root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}

	// Random stored name: the original filename is never trusted for the path.
	storedName := uuid.New().String() + ext
	fullPath := filepath.Join(s.root, storedName)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("write stored file: %w", err)
	}

	doc := models.ClaimDocument{
		ClaimID:    claim.ClaimID,
		FilePath:   storedName,
		FileName:   file.Filename,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&doc).Error; err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("save document record: %w", err)
	}

	if claim.DocumentPath == nil {
		claim.DocumentPath = &storedName
		if err := s.db.Model(claim).Update("document_path", storedName).Error; err != nil {
			return nil, fmt.Errorf("update legacy document path: %w", err)
		}
	}

	return &doc, nil
}

// DocumentDownload carries everything a handler needs to serve a document.
type DocumentDownload struct {
	FullPath    string
	FileName    string
	ContentType string
}

// Resolve authorizes and locates a document for download. Reviewers may fetch
// any document; a lecturer only documents of their own claims.
func (s *DocumentService) Resolve(documentID, requesterID, requesterRole int) (*DocumentDownload, error) {
	var doc models.ClaimDocument
	if err := s.db.First(&doc, documentID).Error; err != nil {
		return nil, ErrDocumentNotFound
	}

	var claim models.Claim
	if err := s.db.First(&claim, doc.ClaimID).Error; err != nil {
		return nil, ErrDocumentNotFound
	}

	if !models.IsReviewer(requesterRole) && claim.UserID != requesterID {
		return nil, ErrForbidden
	}

	fullPath := filepath.Join(s.root, doc.FilePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil, ErrDocumentNotFound
	}

	contentType := contentTypes[strings.ToLower(filepath.Ext(doc.FilePath))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &DocumentDownload{
		FullPath:    fullPath,
		FileName:    doc.FileName,
		ContentType: contentType,
	}, nil
}
