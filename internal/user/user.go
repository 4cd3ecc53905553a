package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshMismatch means the presented refresh token was signed by us
	// but is no longer the one on file, i.e. reuse after a later login
	// overwrote it.
	ErrRefreshMismatch = errors.New("refresh token no longer valid")
)

// User is an account row. Balance is in cents. PhotoPath points into the
// upload directory; the externally visible URL is derived from it.
type User struct {
	ID           uuid.UUID
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	RefreshToken *string
	Balance      int64
	PhotoPath    *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
