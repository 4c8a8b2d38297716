package services

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"claim-management-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Claim{}, &models.ClaimDocument{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, fullName, email string, roleID int) models.User {
	t.Helper()

	now := time.Now()
	user := models.User{
		FullName: fullName,
		Email:    email,
		Password: "irrelevant",
		RoleID:   roleID,
		CreateAt: &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func seedClaim(t *testing.T, db *gorm.DB, user models.User, total float64, status string, createdAt time.Time) models.Claim {
	t.Helper()

	claim := models.Claim{
		UserID:       user.UserID,
		LecturerName: user.FullName,
		HoursWorked:  1,
		HourlyRate:   total,
		Total:        total,
		Status:       status,
		CreateAt:     createdAt,
	}
	if err := db.Create(&claim).Error; err != nil {
		t.Fatalf("seed claim for %s: %v", user.Email, err)
	}
	return claim
}

type uploadFixture struct {
	name string
	data []byte
}

// makeFileHeaders fabricates multipart file headers the way gin would hand
// them to a handler, preserving the given order.
func makeFileHeaders(t *testing.T, files []uploadFixture) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatalf("create form file %s: %v", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			t.Fatalf("write form file %s: %v", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["files"]
}
