package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"claim-management-api/models"
)

func TestAnswerHighestClaimsThisMonth(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssistantService(db)
	manager := seedUser(t, db, "Manager", "am@uni.ac.za", models.RoleManager)

	now := time.Now()
	// Middle of the previous month, immune to end-of-month normalization.
	lastMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location()).AddDate(0, 0, -15)

	alice := seedUser(t, db, "Alice", "alice@uni.ac.za", models.RoleLecturer)
	bob := seedUser(t, db, "Bob", "bob@uni.ac.za", models.RoleLecturer)

	seedClaim(t, db, alice, 500, models.StatusPending, now)
	seedClaim(t, db, alice, 250, models.StatusApproved, now)
	seedClaim(t, db, bob, 600, models.StatusPending, now)
	// Outside the period; must not count.
	seedClaim(t, db, bob, 10000, models.StatusApproved, lastMonth)

	answer, err := svc.Answer(manager.UserID, manager.RoleID, "Who has the highest claims this month?")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	if !strings.Contains(answer, "Alice with R 750.00") {
		t.Fatalf("expected Alice (750.00) as leader, got:\n%s", answer)
	}
	aliceIdx := strings.Index(answer, "1. Alice: R 750.00")
	bobIdx := strings.Index(answer, "2. Bob: R 600.00")
	if aliceIdx == -1 || bobIdx == -1 || bobIdx < aliceIdx {
		t.Fatalf("expected descending top list, got:\n%s", answer)
	}
}

func TestAnswerLowestClaims(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssistantService(db)
	coordinator := seedUser(t, db, "Coordinator", "pc@uni.ac.za", models.RoleCoordinator)

	now := time.Now()
	alice := seedUser(t, db, "Alice", "alice@uni.ac.za", models.RoleLecturer)
	bob := seedUser(t, db, "Bob", "bob@uni.ac.za", models.RoleLecturer)
	seedClaim(t, db, alice, 100, models.StatusPending, now)
	seedClaim(t, db, bob, 900, models.StatusPending, now)

	answer, err := svc.Answer(coordinator.UserID, coordinator.RoleID, "who has the lowest spend")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if !strings.HasPrefix(answer, "Lowest total claims (all time): Alice with R 100.00.") {
		t.Fatalf("unexpected answer:\n%s", answer)
	}
}

func TestAnswerTotalScopedToOwnClaimsForLecturer(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssistantService(db)

	now := time.Now()
	alice := seedUser(t, db, "Alice", "alice@uni.ac.za", models.RoleLecturer)
	bob := seedUser(t, db, "Bob", "bob@uni.ac.za", models.RoleLecturer)
	seedClaim(t, db, alice, 120.5, models.StatusPending, now)
	seedClaim(t, db, alice, 79.5, models.StatusApproved, now.AddDate(0, -2, 0))
	seedClaim(t, db, bob, 1000, models.StatusPending, now)

	answer, err := svc.Answer(alice.UserID, alice.RoleID, "total claimed")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if answer != "Total claimed (all time): R 200.00." {
		t.Fatalf("answer = %q", answer)
	}

	// A reviewer asking the same question sees every claim.
	manager := seedUser(t, db, "Manager", "am@uni.ac.za", models.RoleManager)
	answer, err = svc.Answer(manager.UserID, manager.RoleID, "total claimed")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if answer != "Total claimed (all time): R 1200.00." {
		t.Fatalf("reviewer answer = %q", answer)
	}
}

func TestAnswerRejectedThisMonth(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssistantService(db)
	coordinator := seedUser(t, db, "Coordinator", "pc@uni.ac.za", models.RoleCoordinator)

	now := time.Now()
	alice := seedUser(t, db, "Alice", "alice@uni.ac.za", models.RoleLecturer)
	lastMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location()).AddDate(0, 0, -15)
	rejected := seedClaim(t, db, alice, 300, models.StatusRejected, now)
	seedClaim(t, db, alice, 400, models.StatusApproved, now)
	seedClaim(t, db, alice, 500, models.StatusRejected, lastMonth)

	answer, err := svc.Answer(coordinator.UserID, coordinator.RoleID, "show rejected claims this month")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	if !strings.HasPrefix(answer, "Rejected claims this month (1):") {
		t.Fatalf("unexpected answer:\n%s", answer)
	}
	if !strings.Contains(answer, fmt.Sprintf("CLM-%03d", rejected.ClaimID)) {
		t.Fatalf("answer missing rejected claim reference:\n%s", answer)
	}
}

func TestAnswerExplicitDateRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssistantService(db)
	manager := seedUser(t, db, "Manager", "am@uni.ac.za", models.RoleManager)

	alice := seedUser(t, db, "Alice", "alice@uni.ac.za", models.RoleLecturer)
	in := time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local)
	out := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	seedClaim(t, db, alice, 150, models.StatusPending, in)
	seedClaim(t, db, alice, 999, models.StatusPending, out)

	answer, err := svc.Answer(manager.UserID, manager.RoleID, "total claimed between 2025-01-01 and 2025-01-31")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if answer != "Total claimed (2025-01-01 to 2025-01-31): R 150.00." {
		t.Fatalf("answer = %q", answer)
	}
}

func TestAnswerUnrecognizedQuestionIsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssistantService(db)
	manager := seedUser(t, db, "Manager", "am@uni.ac.za", models.RoleManager)

	for _, msg := range []string{"", "   ", "hello there", "when is lunch"} {
		answer, err := svc.Answer(manager.UserID, manager.RoleID, msg)
		if err != nil {
			t.Fatalf("Answer(%q) returned error: %v", msg, err)
		}
		if answer != "" {
			t.Fatalf("Answer(%q) = %q, want empty for fallback", msg, answer)
		}
	}
}

func TestFallbackHelpPerRole(t *testing.T) {
	svc := NewAssistantService(nil)

	manager := svc.FallbackHelp(models.RoleManager)
	coordinator := svc.FallbackHelp(models.RoleCoordinator)
	lecturer := svc.FallbackHelp(models.RoleLecturer)

	if manager == coordinator || coordinator == lecturer || manager == lecturer {
		t.Fatal("fallback help must differ per role")
	}
	if !strings.Contains(lecturer, "submitting claims") {
		t.Fatalf("lecturer help = %q", lecturer)
	}
}

func TestParsePeriodPhrases(t *testing.T) {
	now := time.Now()

	from, to := parsePeriod("rejected this month")
	if from == nil || to == nil {
		t.Fatal("this month should yield a range")
	}
	if from.Month() != now.Month() || from.Day() != 1 {
		t.Fatalf("this month from = %v", from)
	}
	if !to.After(*from) {
		t.Fatalf("range inverted: %v .. %v", from, to)
	}

	from, to = parsePeriod("totals for this year")
	if from == nil || from.Month() != time.January || from.Day() != 1 {
		t.Fatalf("this year from = %v", from)
	}
	if to == nil || to.Month() != time.December {
		t.Fatalf("this year to = %v", to)
	}

	from, to = parsePeriod("no period here")
	if from != nil || to != nil {
		t.Fatalf("expected open range, got %v .. %v", from, to)
	}
}
