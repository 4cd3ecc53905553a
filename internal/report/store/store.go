package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/ledger"
	"github.com/npereira/centavo/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ExpenseSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (report.Summary, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM infodata
		WHERE user_id = $1 AND section <> $2 AND date >= $3 AND date <= $4
	`

	var summary report.Summary

	err := s.db.QueryRowContext(ctx, query, userID, ledger.SectionIncome, from, to).
		Scan(&summary.Total, &summary.Count)
	if err != nil {
		return report.Summary{}, fmt.Errorf("summing expenses: %w", err)
	}

	return summary, nil
}

func (s *Store) SectionTotals(ctx context.Context, userID uuid.UUID) ([]report.SectionTotal, error) {
	query := `
		SELECT section, SUM(amount)
		FROM infodata
		WHERE user_id = $1
		GROUP BY section
		ORDER BY section
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("summing sections: %w", err)
	}
	defer rows.Close()

	var totals []report.SectionTotal

	for rows.Next() {
		var st report.SectionTotal
		if err := rows.Scan(&st.Section, &st.Total); err != nil {
			return nil, fmt.Errorf("scanning section total: %w", err)
		}

		totals = append(totals, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating section totals: %w", err)
	}

	return totals, nil
}

// bucketExpr formats dates into the same keys the service generates when
// it pre-builds the window, so the zero-fill merge lines up.
func bucketExpr(g report.Granularity) (string, error) {
	switch g {
	case report.GranularityDay:
		return `to_char(date, 'YYYY-MM-DD')`, nil
	case report.GranularityWeek:
		return `to_char(date, 'IYYY-"W"IW')`, nil
	case report.GranularityMonth:
		return `to_char(date, 'YYYY-MM')`, nil
	}

	return "", fmt.Errorf("unknown granularity: %s", g)
}

func (s *Store) BucketTotals(ctx context.Context, userID uuid.UUID, g report.Granularity, from, to time.Time) (map[string]int64, error) {
	expr, err := bucketExpr(g)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + expr + ` AS bucket, SUM(amount)
		FROM infodata
		WHERE user_id = $1 AND section <> $2 AND date >= $3 AND date <= $4
		GROUP BY bucket
	`

	rows, err := s.db.QueryContext(ctx, query, userID, ledger.SectionIncome, from, to)
	if err != nil {
		return nil, fmt.Errorf("summing buckets: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)

	for rows.Next() {
		var key string

		var total int64

		if err := rows.Scan(&key, &total); err != nil {
			return nil, fmt.Errorf("scanning bucket: %w", err)
		}

		totals[key] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating buckets: %w", err)
	}

	return totals, nil
}
