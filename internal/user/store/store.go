package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/npereira/centavo/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const codeUniqueViolation = "23505"

// uniqueErr maps a unique-constraint violation to the matching domain error.
func uniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return user.ErrEmailTaken
	case "users_phone_key":
		return user.ErrPhoneTaken
	}

	return nil
}

const selectUserColumns = `
	id, email, phone, name, password_hash, refresh_token, balance, photo_path, created_at, updated_at
`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var refreshToken, photoPath sql.NullString

	if err := s.Scan(
		&u.ID, &u.Email, &u.Phone, &u.Name, &u.PasswordHash,
		&refreshToken, &u.Balance, &photoPath,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if refreshToken.Valid {
		u.RefreshToken = &refreshToken.String
	}

	if photoPath.Valid {
		u.PhotoPath = &photoPath.String
	}

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, phone, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.Email, u.Phone, u.Name, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if domainErr := uniqueErr(err); domainErr != nil {
			return domainErr
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return u, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
		    email = COALESCE($2, email),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING ` + selectUserColumns

	u, err := scanUser(s.db.QueryRowContext(ctx, query, params.Name, params.Email, params.Phone, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		if domainErr := uniqueErr(err); domainErr != nil {
			return nil, domainErr
		}

		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return u, nil
}

func (s *Store) StoreRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (s *Store) SetPhotoPath(ctx context.Context, id uuid.UUID, path string) error {
	query := `UPDATE users SET photo_path = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("setting photo path: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}

	return nil
}
