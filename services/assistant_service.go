package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"claim-management-api/models"
)

// Question patterns, evaluated in priority order; first match wins.
var (
	highestRe    = regexp.MustCompile(`(highest|top|max).*(claim|spend|amount)\b`)
	whoHighestRe = regexp.MustCompile(`\bwho\b.*(highest|most).*(claim|spend)`)
	lowestRe     = regexp.MustCompile(`(lowest|min).*(claim|spend|amount)\b`)
	whoLowestRe  = regexp.MustCompile(`\bwho\b.*(lowest|least).*(claim|spend)`)
	dateRangeRe  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}).*(\d{4}-\d{2}-\d{2})`)
)

// AssistantService answers free-text questions about claim data. Lecturers
// only ever see their own claims; reviewers see everything.
type AssistantService struct {
	db *gorm.DB
}

func NewAssistantService(db *gorm.DB) *AssistantService {
	return &AssistantService{db: db}
}

type lecturerTotal struct {
	UserID       int
	LecturerName string
	Total        float64
}

// Answer interprets the question and returns a text answer, or "" when no
// pattern matches so the caller can substitute role-specific help.
func (s *AssistantService) Answer(userID, roleID int, message string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return "", nil
	}

	from, to := parsePeriod(m)
	q := s.scopedQuery(userID, roleID, from, to)

	switch {
	case highestRe.MatchString(m) || whoHighestRe.MatchString(m):
		return s.rankedAnswer(q, "DESC", "Highest", "Top", from, to)

	case lowestRe.MatchString(m) || whoLowestRe.MatchString(m):
		return s.rankedAnswer(q, "ASC", "Lowest", "Bottom", from, to)

	case strings.Contains(m, "rejected") && strings.Contains(m, "month"):
		return s.rejectedThisMonth(userID, roleID)

	case strings.Contains(m, "total") || strings.Contains(m, "sum") || strings.Contains(m, "aggregate"):
		var total float64
		if err := q.Select("COALESCE(SUM(total), 0)").Scan(&total).Error; err != nil {
			return "", err
		}
		return fmt.Sprintf("Total claimed %s: R %.2f.", describePeriod(from, to), total), nil
	}

	return "", nil
}

func (s *AssistantService) scopedQuery(userID, roleID int, from, to *time.Time) *gorm.DB {
	q := s.db.Model(&models.Claim{})
	if !models.IsReviewer(roleID) {
		q = q.Where("user_id = ?", userID)
	}
	if from != nil {
		q = q.Where("create_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("create_at <= ?", *to)
	}
	return q
}

func (s *AssistantService) rankedAnswer(q *gorm.DB, direction, superlative, listLabel string, from, to *time.Time) (string, error) {
	var grouped []lecturerTotal
	if err := q.Select("user_id, lecturer_name, SUM(total) AS total").
		Group("user_id, lecturer_name").
		Order("total " + direction).
		Limit(5).
		Scan(&grouped).Error; err != nil {
		return "", err
	}
	if len(grouped) == 0 {
		return "No claims found for the selected period.", nil
	}

	lines := make([]string, len(grouped))
	for i, g := range grouped {
		lines[i] = fmt.Sprintf("%d. %s: R %.2f", i+1, g.LecturerName, g.Total)
	}

	leader := grouped[0]
	return fmt.Sprintf("%s total claims %s: %s with R %.2f.\n%s 5:\n%s",
		superlative, describePeriod(from, to), leader.LecturerName, leader.Total,
		listLabel, strings.Join(lines, "\n")), nil
}

func (s *AssistantService) rejectedThisMonth(userID, roleID int) (string, error) {
	from, to := parsePeriod("this month")

	var rejected []models.Claim
	if err := s.scopedQuery(userID, roleID, from, to).
		Where("status = ?", models.StatusRejected).
		Order("create_at DESC").
		Find(&rejected).Error; err != nil {
		return "", err
	}
	if len(rejected) == 0 {
		return "No rejected claims found this month.", nil
	}

	rows := make([]string, len(rejected))
	for i, c := range rejected {
		rows[i] = fmt.Sprintf("CLM-%03d • %s • R %.2f • %s",
			c.ClaimID, c.LecturerName, c.Total, c.CreateAt.Format("02 Jan"))
	}
	return fmt.Sprintf("Rejected claims this month (%d):\n%s", len(rejected), strings.Join(rows, "\n")), nil
}

// FallbackHelp returns the role-specific canned message used when no pattern
// matched and no file analysis happened.
func (s *AssistantService) FallbackHelp(roleID int) string {
	switch roleID {
	case models.RoleManager:
		return "I can analyze uploaded invoices (PDF) to extract totals, and answer questions like:\n- Who has the highest/lowest claims this month?\n- What is the total processed this year?\nTry uploading a PDF or ask: 'highest claims this month'."
	case models.RoleCoordinator:
		return "I can help review activity and answer queries like:\n- Show rejected claims this month\n- Total claimed between 2025-01-01 and 2025-01-31\nYou can also upload an invoice PDF for analysis."
	}
	return "I can assist with submitting claims and tracking status, and I can analyze invoice PDFs you upload. Try: 'total claimed this month' or upload a PDF."
}

// parsePeriod recognizes "this month", "last month", "this year" and an
// explicit "YYYY-MM-DD ... YYYY-MM-DD" range. No match means no date filter.
func parsePeriod(m string) (*time.Time, *time.Time) {
	now := time.Now()

	if strings.Contains(m, "this month") {
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return &from, &to
	}
	if strings.Contains(m, "last month") {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from := monthStart.AddDate(0, -1, 0)
		to := monthStart.Add(-time.Nanosecond)
		return &from, &to
	}
	if strings.Contains(m, "this year") {
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		to := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, now.Location())
		return &from, &to
	}

	if match := dateRangeRe.FindStringSubmatch(m); match != nil {
		from, errF := time.ParseInLocation("2006-01-02", match[1], now.Location())
		to, errT := time.ParseInLocation("2006-01-02", match[2], now.Location())
		if errF == nil && errT == nil {
			return &from, &to
		}
	}

	return nil, nil
}

func describePeriod(from, to *time.Time) string {
	if from == nil && to == nil {
		return "(all time)"
	}
	return fmt.Sprintf("(%s to %s)", from.Format("2006-01-02"), to.Format("2006-01-02"))
}
