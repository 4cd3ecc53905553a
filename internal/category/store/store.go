package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/npereira/centavo/internal/category"
	"github.com/npereira/centavo/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const codeUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectCategoryColumns = `
	id, user_id, label, icon, icon_color, icon_library, target, origin, created_at
`

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var userID *uuid.UUID

	var target sql.NullInt64

	var origin string

	if err := s.Scan(
		&c.ID, &userID, &c.Label, &c.Icon, &c.IconColor, &c.IconLibrary,
		&target, &origin, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	c.UserID = userID
	c.Origin = category.Origin(origin)

	if target.Valid {
		c.Target = &target.Int64
	}

	return &c, nil
}

// ListCategories returns the shared defaults (user_id IS NULL) followed by
// the user's custom rows, alphabetical within each group.
func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY origin, label`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, label, icon, icon_color, icon_library, target, origin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.UserID, c.Label, c.Icon, c.IconColor, c.IconLibrary, c.Target, c.Origin,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return category.ErrLabelTaken
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

// UpdateCategory changes the category row and, when the target changes,
// refreshes the denormalized per-entry target cache for the section in
// the same transaction.
func (s *Store) UpdateCategory(ctx context.Context, id, userID uuid.UUID, params category.UpdateParams) (*category.Category, error) {
	var result *category.Category

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		result, err = scanCategory(tx.QueryRowContext(ctx, `
			UPDATE categories
			SET label = COALESCE($1, label),
			    icon = COALESCE($2, icon),
			    icon_color = COALESCE($3, icon_color),
			    icon_library = COALESCE($4, icon_library),
			    target = COALESCE($5, target)
			WHERE id = $6 AND user_id = $7
			RETURNING `+selectCategoryColumns,
			params.Label, params.Icon, params.IconColor, params.IconLibrary,
			params.Target, id, userID,
		))
		if err != nil {
			if err == sql.ErrNoRows {
				return category.ErrNotFound
			}

			if isUniqueViolation(err) {
				return category.ErrLabelTaken
			}

			return fmt.Errorf("updating category: %w", err)
		}

		if params.Target != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE infodata SET target = $1 WHERE user_id = $2 AND section = $3`,
				*params.Target, userID, result.Label,
			)
			if err != nil {
				return fmt.Errorf("refreshing entry targets: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing category update: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteCascade removes the category and every ledger entry carrying its
// label, as one unit. Only user-owned rows can be deleted; the shared
// defaults have no owner and never match.
func (s *Store) DeleteCascade(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	var deleted int64

	err := database.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var label string

		err = tx.QueryRowContext(ctx,
			`SELECT label FROM categories WHERE id = $1 AND user_id = $2`, id, userID,
		).Scan(&label)
		if err != nil {
			if err == sql.ErrNoRows {
				return category.ErrNotFound
			}

			return fmt.Errorf("looking up category: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM infodata WHERE user_id = $1 AND section = $2`, userID, label)
		if err != nil {
			return fmt.Errorf("deleting entries: %w", err)
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("counting deleted entries: %w", err)
		}

		res, err = tx.ExecContext(ctx,
			`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}

		if n, _ := res.RowsAffected(); n == 0 {
			// Row vanished between lookup and delete; roll the cascade back.
			return category.ErrNotFound
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing cascade delete: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
