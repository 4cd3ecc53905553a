package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/database"
	"github.com/npereira/centavo/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectEntryColumns = `
	id, user_id, section, amount, date, payment_mode, note, target, created_at
`

func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var note sql.NullString

	var target sql.NullInt64

	if err := s.Scan(
		&e.ID, &e.UserID, &e.Section, &e.Amount, &e.Date,
		&e.PaymentMode, &note, &target, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	if note.Valid {
		e.Note = &note.String
	}

	if target.Valid {
		e.Target = &target.Int64
	}

	return &e, nil
}

func (s *Store) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	query := `
		INSERT INTO infodata (user_id, section, amount, date, payment_mode, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	return database.WithRetry(ctx, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, query,
			e.UserID, e.Section, e.Amount, e.Date, e.PaymentMode, e.Note,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}

		return nil
	})
}

func (s *Store) GetEntry(ctx context.Context, id, userID uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM infodata WHERE id = $1 AND user_id = $2`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, userID uuid.UUID, filter ledger.ListFilter) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM infodata WHERE user_id = $1`

	args := []any{userID}
	argIdx := 2

	if filter.Section != nil {
		query += fmt.Sprintf(" AND section = $%d", argIdx)

		args = append(args, *filter.Section)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	// id breaks ties between entries on the same date.
	query += fmt.Sprintf(" ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

// UpdateEntry applies the field changes and, when a target is supplied,
// stamps it onto every row of the entry's post-update section first. The
// whole sequence runs in one transaction and the refreshed section row
// set is returned.
func (s *Store) UpdateEntry(ctx context.Context, id, userID uuid.UUID, params ledger.UpdateParams) ([]*ledger.Entry, error) {
	var result []*ledger.Entry

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var currentSection string

		err = tx.QueryRowContext(ctx,
			`SELECT section FROM infodata WHERE id = $1 AND user_id = $2`, id, userID,
		).Scan(&currentSection)
		if err != nil {
			if err == sql.ErrNoRows {
				return ledger.ErrNotFound
			}

			return fmt.Errorf("looking up entry: %w", err)
		}

		section := currentSection
		if params.Section != nil {
			section = *params.Section
		}

		if params.Target != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE infodata SET target = $1 WHERE user_id = $2 AND section = $3`,
				*params.Target, userID, section,
			)
			if err != nil {
				return fmt.Errorf("propagating target: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE infodata
			SET section = COALESCE($1, section),
			    amount = COALESCE($2, amount),
			    date = COALESCE($3, date),
			    payment_mode = COALESCE($4, payment_mode),
			    note = COALESCE($5, note),
			    target = COALESCE($6, target)
			WHERE id = $7 AND user_id = $8`,
			params.Section, params.Amount, params.Date, params.PaymentMode,
			params.Note, params.Target, id, userID,
		)
		if err != nil {
			return fmt.Errorf("updating entry: %w", err)
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT `+selectEntryColumns+` FROM infodata
			 WHERE user_id = $1 AND section = $2
			 ORDER BY date DESC, id DESC`,
			userID, section,
		)
		if err != nil {
			return fmt.Errorf("reloading section: %w", err)
		}
		defer rows.Close()

		result, err = collectEntries(rows)
		if err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing update: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM infodata WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

// AdjustBalance moves the user's balance by delta and, for deposits,
// records the matching income entry. The row lock taken by FOR UPDATE
// serializes concurrent adjustments for the same user.
func (s *Store) AdjustBalance(ctx context.Context, userID uuid.UUID, delta int64, paymentMode string) (int64, error) {
	var newBalance int64

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var balance int64

		err = tx.QueryRowContext(ctx,
			`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&balance)
		if err != nil {
			if err == sql.ErrNoRows {
				return ledger.ErrUserNotFound
			}

			return fmt.Errorf("locking balance: %w", err)
		}

		newBalance = balance + delta

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2`,
			newBalance, userID,
		)
		if err != nil {
			return fmt.Errorf("writing balance: %w", err)
		}

		if delta > 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO infodata (user_id, section, amount, date, payment_mode, created_at)
				VALUES ($1, $2, $3, CURRENT_DATE, $4, NOW())`,
				userID, ledger.SectionIncome, delta, paymentMode,
			)
			if err != nil {
				return fmt.Errorf("recording deposit: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing balance adjustment: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

// batchLockKey scopes the advisory lock to one user's date range so
// unrelated imports do not serialize against each other.
func batchLockKey(userID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(userID[:])
	h.Write([]byte{0})
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type batchTx struct {
	tx     *sql.Tx
	userID uuid.UUID
}

func (s *Store) BeginBatch(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (ledger.BatchTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	lockKey := batchLockKey(userID, minDate, maxDate)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: tx, userID: userID}, nil
}

func (btx *batchTx) Commit() error   { return btx.tx.Commit() }
func (btx *batchTx) Rollback() error { return btx.tx.Rollback() }

func (btx *batchTx) FindDuplicates(ctx context.Context, params []ledger.CreateParams) ([]*ledger.Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	rows, err := btx.tx.QueryContext(ctx,
		`SELECT `+selectEntryColumns+` FROM infodata
		 WHERE user_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date ASC`,
		btx.userID, minDate, maxDate,
	)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (btx *batchTx) CreateEntries(ctx context.Context, entries []*ledger.Entry) error {
	query := `
		INSERT INTO infodata (user_id, section, amount, date, payment_mode, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	for _, e := range entries {
		err := btx.tx.QueryRowContext(ctx, query,
			e.UserID, e.Section, e.Amount, e.Date, e.PaymentMode, e.Note,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}
	}

	return nil
}
