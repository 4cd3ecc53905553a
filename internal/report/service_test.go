package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/npereira/centavo/internal/report"
)

func TestPeriod_Resolve(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	type testCase struct {
		name     string
		period   report.Period
		wantFrom time.Time
		wantErr  bool
	}

	tests := []testCase{
		{
			name:     "ThisMonth",
			period:   report.PeriodThisMonth,
			wantFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Last3Months",
			period:   report.PeriodLast3Months,
			wantFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Last6Months",
			period:   report.PeriodLast6Months,
			wantFrom: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Last12Months",
			period:   report.PeriodLast12Months,
			wantFrom: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Unknown",
			period:  report.Period("lastCentury"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := tt.period.Resolve(now)

			if tt.wantErr {
				assert.ErrorIs(t, err, report.ErrUnknownPeriod)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, now, to)
		})
	}
}

// Three Food entries dated 2024-01-05, 2024-02-10, 2024-02-20; a monthly
// summary over the last 2 months anchored at March 2024 shows Feb with the
// two February rows summed and an explicit zero March.
func TestService_MonthlyBuckets_ZeroFill(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	anchor := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		BucketTotals(gomock.Any(), userID, report.GranularityMonth,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)).
		Return(map[string]int64{"2024-02": 3000}, nil)

	svc := report.NewService(repo)

	buckets, err := svc.MonthlyBuckets(context.Background(), userID, 2, anchor)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "Feb", buckets[0].Label)
	assert.Equal(t, int64(3000), buckets[0].Total)
	assert.Equal(t, "Mar", buckets[1].Label)
	assert.Equal(t, int64(0), buckets[1].Total)
}

func TestService_MonthlyBuckets_WindowSpansYears(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	anchor := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		BucketTotals(gomock.Any(), userID, report.GranularityMonth, gomock.Any(), gomock.Any()).
		Return(map[string]int64{"2023-12": 500}, nil)

	svc := report.NewService(repo)

	buckets, err := svc.MonthlyBuckets(context.Background(), userID, 3, anchor)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01"},
		[]string{buckets[0].Key, buckets[1].Key, buckets[2].Key})
	assert.Equal(t, int64(0), buckets[0].Total)
	assert.Equal(t, int64(500), buckets[1].Total)
	assert.Equal(t, int64(0), buckets[2].Total)
}

func TestService_DailyBuckets_NoGaps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	anchor := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		BucketTotals(gomock.Any(), userID, report.GranularityDay,
			time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)).
		Return(map[string]int64{
			"2024-02-05": 1200,
			"2024-02-09": 800,
		}, nil)

	svc := report.NewService(repo)

	buckets, err := svc.DailyBuckets(context.Background(), userID, 7, anchor)
	require.NoError(t, err)
	require.Len(t, buckets, 7)

	var total int64
	for i, b := range buckets {
		expected := anchor.AddDate(0, 0, -(6 - i)).Format(time.DateOnly)
		assert.Equal(t, expected, b.Key)
		total += b.Total
	}

	assert.Equal(t, int64(2000), total)
}

func TestService_WeeklyBuckets_ISOWeeks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	// A Wednesday; its ISO week is 2024-W07 (Mon 2024-02-12).
	anchor := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		BucketTotals(gomock.Any(), userID, report.GranularityWeek,
			time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 18, 0, 0, 0, 0, time.UTC)).
		Return(map[string]int64{"2024-W06": 4500}, nil)

	svc := report.NewService(repo)

	buckets, err := svc.WeeklyBuckets(context.Background(), userID, 2, anchor)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-W06", buckets[0].Key)
	assert.Equal(t, int64(4500), buckets[0].Total)
	assert.Equal(t, "2024-W07", buckets[1].Key)
	assert.Equal(t, int64(0), buckets[1].Total)
}

func TestService_Buckets_ClampCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	anchor := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		BucketTotals(gomock.Any(), userID, report.GranularityMonth, gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(2)

	svc := report.NewService(repo)

	// Zero falls back to the default window of six months.
	buckets, err := svc.MonthlyBuckets(context.Background(), userID, 0, anchor)
	require.NoError(t, err)
	assert.Len(t, buckets, 6)

	// Absurd requests are capped rather than rejected.
	buckets, err = svc.MonthlyBuckets(context.Background(), userID, 9999, anchor)
	require.NoError(t, err)
	assert.Len(t, buckets, 36)
}

func TestService_Summary_RejectsInvertedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := report.NewService(report.NewMockRepository(ctrl))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.Summary(context.Background(), uuid.New(), from, to)
	assert.Error(t, err)
}

func TestService_PeriodSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		ExpenseSummary(gomock.Any(), userID,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now).
		Return(report.Summary{Total: 123400, Count: 17}, nil)

	svc := report.NewServiceAt(repo, func() time.Time { return now })

	summary, err := svc.PeriodSummary(context.Background(), userID, report.PeriodLast3Months)
	require.NoError(t, err)
	assert.Equal(t, int64(123400), summary.Total)
	assert.Equal(t, 17, summary.Count)
}
