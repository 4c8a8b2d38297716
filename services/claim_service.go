package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"claim-management-api/config"
	"claim-management-api/models"
	"claim-management-api/realtime"
)

// Reviewer listings are capped at the newest claims.
const reviewerPageSize = 50

// ClaimService owns the claim lifecycle: submission, review decisions and
// role-scoped queries. Status changes fan out through the hub.
type ClaimService struct {
	db   *gorm.DB
	hub  *realtime.Hub
	docs *DocumentService
}

func NewClaimService(db *gorm.DB, hub *realtime.Hub, docs *DocumentService) *ClaimService {
	return &ClaimService{db: db, hub: hub, docs: docs}
}

// RoundTotal computes hours x rate rounded to 2 decimal places, half away
// from zero. Done in decimal space: 1.0 x 2.005 must come out as 2.01, which
// float64 arithmetic gets wrong.
func RoundTotal(hoursWorked, hourlyRate float64) float64 {
	total, _ := decimal.NewFromFloat(hoursWorked).
		Mul(decimal.NewFromFloat(hourlyRate)).
		Round(2).
		Float64()
	return total
}

type SubmitInput struct {
	UserID       int
	LecturerName string
	HoursWorked  float64
	HourlyRate   float64
	Notes        *string
	Title        *string
	Category     *string
	ExpenseDate  *time.Time
	Files        []*multipart.FileHeader
}

// Submit validates and persists a new Pending claim, then attaches whatever
// uploaded files pass the document checks. The claim row is persisted before
// any file is touched, so a claim identity exists even if every file is
// rejected; file failures never fail the submission.
func (s *ClaimService) Submit(in SubmitInput) (*models.Claim, error) {
	// NaN compares false to everything and +Inf passes a > 0 check, so the
	// range check alone would let non-finite values reach the decimal math.
	if math.IsNaN(in.HoursWorked) || math.IsInf(in.HoursWorked, 0) ||
		math.IsNaN(in.HourlyRate) || math.IsInf(in.HourlyRate, 0) {
		return nil, ErrInvalidHoursOrRate
	}
	if in.HoursWorked <= 0 || in.HourlyRate < 0 {
		return nil, ErrInvalidHoursOrRate
	}

	claim := models.Claim{
		UserID:       in.UserID,
		LecturerName: in.LecturerName,
		HoursWorked:  in.HoursWorked,
		HourlyRate:   in.HourlyRate,
		Total:        RoundTotal(in.HoursWorked, in.HourlyRate),
		Notes:        in.Notes,
		Title:        in.Title,
		Category:     in.Category,
		ExpenseDate:  in.ExpenseDate,
		Status:       models.StatusPending,
		CreateAt:     time.Now().UTC(),
	}

	if err := s.db.Create(&claim).Error; err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}

	for _, file := range in.Files {
		if _, err := s.docs.Save(&claim, file); err != nil {
			if errors.Is(err, ErrUnsupportedFileType) || errors.Is(err, ErrFileTooLarge) {
				continue
			}
			log.Printf("Warning: failed to save document %s for claim %d: %v", file.Filename, claim.ClaimID, err)
		}
	}

	s.hub.BroadcastStatus(claim.ClaimID, claim.Status, claim.UserID)

	return &claim, nil
}

// Approve marks a claim Approved. The status is set unconditionally, so the
// call is idempotent and the latest reviewer decision wins.
func (s *ClaimService) Approve(claimID int) (*models.Claim, error) {
	return s.decide(claimID, models.StatusApproved)
}

// Reject marks a claim Rejected.
func (s *ClaimService) Reject(claimID int) (*models.Claim, error) {
	return s.decide(claimID, models.StatusRejected)
}

func (s *ClaimService) decide(claimID int, status string) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.First(&claim, claimID).Error; err != nil {
		return nil, ErrClaimNotFound
	}

	claim.Status = status
	if err := s.db.Save(&claim).Error; err != nil {
		return nil, fmt.Errorf("update claim status: %w", err)
	}

	s.hub.BroadcastStatus(claim.ClaimID, claim.Status, claim.UserID)

	// Best-effort decision mail; a delivery failure never fails the request.
	go s.sendDecisionMail(claim)

	return &claim, nil
}

func (s *ClaimService) sendDecisionMail(claim models.Claim) {
	var user models.User
	if err := s.db.First(&user, claim.UserID).Error; err != nil {
		log.Printf("Warning: decision mail skipped, user %d not found: %v", claim.UserID, err)
		return
	}

	subject := fmt.Sprintf("Claim CLM-%03d %s", claim.ClaimID, claim.Status)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your claim CLM-%03d for R %.2f has been <strong>%s</strong>.</p>",
		user.FullName, claim.ClaimID, claim.Total, claim.Status,
	)
	if err := config.SendMail([]string{user.Email}, subject, body); err != nil {
		log.Printf("Warning: failed to send decision mail for claim %d: %v", claim.ClaimID, err)
	}
}

// ListMine returns the submitter's own claims, newest first.
func (s *ClaimService) ListMine(userID int) ([]models.Claim, error) {
	var claims []models.Claim
	if err := s.db.Where("user_id = ?", userID).
		Order("create_at DESC").
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// ListAll returns the newest claims across all submitters for reviewers.
func (s *ClaimService) ListAll() ([]models.Claim, error) {
	var claims []models.Claim
	if err := s.db.Order("create_at DESC").
		Limit(reviewerPageSize).
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// Get returns one claim with its documents. Lecturers may only fetch their
// own claims; reviewers may fetch any.
func (s *ClaimService) Get(claimID, requesterID, requesterRole int) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.Preload("Documents").First(&claim, claimID).Error; err != nil {
		return nil, ErrClaimNotFound
	}

	if !models.IsReviewer(requesterRole) && claim.UserID != requesterID {
		return nil, ErrForbidden
	}

	return &claim, nil
}

// GetRow returns one claim without relations, for live row refreshes.
func (s *ClaimService) GetRow(claimID int) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.First(&claim, claimID).Error; err != nil {
		return nil, ErrClaimNotFound
	}
	return &claim, nil
}
