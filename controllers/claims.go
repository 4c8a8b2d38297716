package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"claim-management-api/config"
	"claim-management-api/models"
	"claim-management-api/realtime"
	"claim-management-api/services"
	"claim-management-api/utils"
)

func claimService() *services.ClaimService {
	docs := services.NewDocumentService(config.DB, services.DocumentRoot())
	return services.NewClaimService(config.DB, realtime.Default, docs)
}

// SubmitClaim creates a new claim from a multipart form (hours, rate, notes,
// optional metadata, files[]).
func SubmitClaim(c *gin.Context) {
	userID, _ := c.Get("userID")

	hoursWorked, err := strconv.ParseFloat(c.PostForm("hours_worked"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hours worked"})
		return
	}
	hourlyRate, err := strconv.ParseFloat(c.PostForm("hourly_rate"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hourly rate"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	in := services.SubmitInput{
		UserID:       user.UserID,
		LecturerName: user.FullName,
		HoursWorked:  hoursWorked,
		HourlyRate:   hourlyRate,
		Notes:        optionalFormField(c, "notes"),
		Title:        optionalFormField(c, "title"),
		Category:     optionalFormField(c, "category"),
		Files:        formFiles(c),
	}

	if raw := strings.TrimSpace(c.PostForm("expense_date")); raw != "" {
		expenseDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense date, expected YYYY-MM-DD"})
			return
		}
		in.ExpenseDate = &expenseDate
	}

	claim, err := claimService().Submit(in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidHoursOrRate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hours or rate"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit claim"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Claim submitted successfully",
		"claim":   claim,
	})
}

// GetMyClaims lists the caller's own claims, newest first.
func GetMyClaims(c *gin.Context) {
	userID, _ := c.Get("userID")

	claims, err := claimService().ListMine(userID.(int))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// GetAllClaims lists the newest claims across all submitters (reviewers only).
func GetAllClaims(c *gin.Context) {
	claims, err := claimService().ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// GetClaim returns one claim with its documents, with ownership enforcement.
func GetClaim(c *gin.Context) {
	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	claim, err := claimService().Get(claimID, userID.(int), roleID.(int))
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// GetClaimRow returns a compact single-claim payload for live row refreshes.
func GetClaimRow(c *gin.Context) {
	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	claim, err := claimService().GetRow(claimID)
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claim_id":      claim.ClaimID,
		"lecturer_name": claim.LecturerName,
		"total":         claim.Total,
		"status":        claim.Status,
		"create_at":     claim.CreateAt,
	})
}

// ApproveClaim sets a claim to Approved (reviewers only).
func ApproveClaim(c *gin.Context) {
	decideClaim(c, (*services.ClaimService).Approve, "Claim approved successfully")
}

// RejectClaim sets a claim to Rejected (reviewers only).
func RejectClaim(c *gin.Context) {
	decideClaim(c, (*services.ClaimService).Reject, "Claim rejected successfully")
}

func decideClaim(c *gin.Context, decide func(*services.ClaimService, int) (*models.Claim, error), message string) {
	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	claim, err := decide(claimService(), claimID)
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"claim":   claim,
	})
}

func respondClaimError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process claim"})
	}
}

func optionalFormField(c *gin.Context, name string) *string {
	value := utils.SanitizeInput(c.PostForm(name))
	if value == "" {
		return nil
	}
	return &value
}

func formFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["files"]
}
