package report

import (
	"errors"
	"time"
)

// Granularity selects the bucket width for time-bucketed summaries.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Period names a relative reporting window ending now.
type Period string

const (
	PeriodThisMonth    Period = "thisMonth"
	PeriodLast3Months  Period = "last3Months"
	PeriodLast6Months  Period = "last6Months"
	PeriodLast12Months Period = "last12Months"
)

var ErrUnknownPeriod = errors.New("unknown period")

// Resolve turns a named period into a concrete date range anchored at now.
// Ranges start on the first day of a month and run through now.
func (p Period) Resolve(now time.Time) (from, to time.Time, err error) {
	monthsBack := 0

	switch p {
	case PeriodThisMonth:
	case PeriodLast3Months:
		monthsBack = 2
	case PeriodLast6Months:
		monthsBack = 5
	case PeriodLast12Months:
		monthsBack = 11
	default:
		return time.Time{}, time.Time{}, ErrUnknownPeriod
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	return start.AddDate(0, -monthsBack, 0), now, nil
}

// Summary is total spend (income excluded) and entry count for a window.
type Summary struct {
	Total int64
	Count int
}

// SectionTotal is the summed value of one section.
type SectionTotal struct {
	Section string
	Total   int64
}

// Bucket is one interval of a time-bucketed summary. Key is the stable
// aggregation key ("2024-02", "2024-W07", "2024-02-10"); Label is the
// display form ("Feb", "W07", "2024-02-10"). Buckets with no activity
// still appear with a zero Total.
type Bucket struct {
	Key   string
	Label string
	Total int64
}
