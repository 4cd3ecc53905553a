package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	maxMonths = 36
	maxWeeks  = 104
	maxDays   = 366
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	// ExpenseSummary excludes income entries from both total and count.
	ExpenseSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (Summary, error)
	SectionTotals(ctx context.Context, userID uuid.UUID) ([]SectionTotal, error)
	// BucketTotals returns summed expense values keyed by bucket. Only
	// buckets with activity appear; the service fills in the rest.
	BucketTotals(ctx context.Context, userID uuid.UUID, g Granularity, from, to time.Time) (map[string]int64, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceAt pins the clock, for tests.
func NewServiceAt(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// Summary reports total expense and entry count for an explicit range.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (Summary, error) {
	if to.Before(from) {
		return Summary{}, fmt.Errorf("invalid range: to precedes from")
	}

	return s.repo.ExpenseSummary(ctx, userID, from, to)
}

// PeriodSummary reports the same for a named relative period.
func (s *Service) PeriodSummary(ctx context.Context, userID uuid.UUID, period Period) (Summary, error) {
	from, to, err := period.Resolve(s.now())
	if err != nil {
		return Summary{}, err
	}

	return s.repo.ExpenseSummary(ctx, userID, from, to)
}

// Sections reports summed value per section, alphabetical.
func (s *Service) Sections(ctx context.Context, userID uuid.UUID) ([]SectionTotal, error) {
	return s.repo.SectionTotals(ctx, userID)
}

func clamp(n, fallback, max int) int {
	if n < 1 {
		return fallback
	}

	if n > max {
		return max
	}

	return n
}

// MonthlyBuckets returns the last `months` calendar months ending at the
// anchor's month, oldest first. Every month in the window is present;
// months without entries carry 0.
func (s *Service) MonthlyBuckets(ctx context.Context, userID uuid.UUID, months int, anchor time.Time) ([]Bucket, error) {
	months = clamp(months, 6, maxMonths)

	anchorMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	from := anchorMonth.AddDate(0, -(months - 1), 0)
	to := anchorMonth.AddDate(0, 1, -1)

	totals, err := s.repo.BucketTotals(ctx, userID, GranularityMonth, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, months)

	for m := 0; m < months; m++ {
		cur := from.AddDate(0, m, 0)
		key := cur.Format("2006-01")
		buckets = append(buckets, Bucket{
			Key:   key,
			Label: cur.Format("Jan"),
			Total: totals[key],
		})
	}

	return buckets, nil
}

// isoWeekStart returns the Monday of t's ISO week.
func isoWeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return t.AddDate(0, 0, -(weekday - 1))
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeeklyBuckets returns the last `weeks` ISO weeks ending at the anchor's
// week, oldest first, zero-filled.
func (s *Service) WeeklyBuckets(ctx context.Context, userID uuid.UUID, weeks int, anchor time.Time) ([]Bucket, error) {
	weeks = clamp(weeks, 8, maxWeeks)

	from := isoWeekStart(anchor).AddDate(0, 0, -7*(weeks-1))
	to := isoWeekStart(anchor).AddDate(0, 0, 6)

	totals, err := s.repo.BucketTotals(ctx, userID, GranularityWeek, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, weeks)

	for w := 0; w < weeks; w++ {
		cur := from.AddDate(0, 0, 7*w)
		key := isoWeekKey(cur)
		_, week := cur.ISOWeek()
		buckets = append(buckets, Bucket{
			Key:   key,
			Label: fmt.Sprintf("W%02d", week),
			Total: totals[key],
		})
	}

	return buckets, nil
}

// DailyBuckets returns the last `days` days ending at the anchor date,
// oldest first, zero-filled.
func (s *Service) DailyBuckets(ctx context.Context, userID uuid.UUID, days int, anchor time.Time) ([]Bucket, error) {
	days = clamp(days, 30, maxDays)

	to := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	from := to.AddDate(0, 0, -(days - 1))

	totals, err := s.repo.BucketTotals(ctx, userID, GranularityDay, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, days)

	for d := 0; d < days; d++ {
		cur := from.AddDate(0, 0, d)
		key := cur.Format(time.DateOnly)
		buckets = append(buckets, Bucket{
			Key:   key,
			Label: key,
			Total: totals[key],
		})
	}

	return buckets, nil
}
