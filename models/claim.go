package models

import (
	"time"
)

// Claim statuses. A claim starts Pending; reviewers move it to Approved or
// Rejected. There is no transition back to Pending.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type Claim struct {
	ClaimID      int        `gorm:"primaryKey;column:claim_id" json:"claim_id"`
	UserID       int        `gorm:"column:user_id;index" json:"user_id"`
	LecturerName string     `gorm:"column:lecturer_name;size:200" json:"lecturer_name"`
	HoursWorked  float64    `gorm:"column:hours_worked" json:"hours_worked"`
	HourlyRate   float64    `gorm:"column:hourly_rate" json:"hourly_rate"`
	// Total is computed once at submission (hours x rate, 2 dp, half away
	// from zero) and never recomputed.
	Total       float64    `gorm:"column:total" json:"total"`
	Title       *string    `gorm:"column:title;size:200" json:"title,omitempty"`
	Category    *string    `gorm:"column:category;size:100" json:"category,omitempty"`
	ExpenseDate *time.Time `gorm:"column:expense_date" json:"expense_date,omitempty"`
	Notes       *string    `gorm:"column:notes;size:500" json:"notes,omitempty"`
	Status      string     `gorm:"column:status;size:50" json:"status"`
	// DocumentPath keeps the first uploaded document's stored path for
	// consumers that predate multi-document claims.
	DocumentPath *string   `gorm:"column:document_path;size:500" json:"document_path,omitempty"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`

	// Relations
	User      User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Documents []ClaimDocument `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

type ClaimDocument struct {
	DocumentID int       `gorm:"primaryKey;column:document_id" json:"document_id"`
	ClaimID    int       `gorm:"column:claim_id;index" json:"claim_id"`
	FilePath   string    `gorm:"column:file_path;size:500" json:"file_path"`
	FileName   string    `gorm:"column:file_name;size:200" json:"file_name"`
	UploadedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`

	Claim Claim `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`
}

// TableName overrides
func (Claim) TableName() string {
	return "claims"
}

func (ClaimDocument) TableName() string {
	return "claim_documents"
}
