package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/npereira/centavo/internal/auth"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateParams) (*User, error)
	StoreRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	SetPhotoPath(ctx context.Context, id uuid.UUID, path string) error
}

// Tokens is the slice of auth.Issuer the service needs.
type Tokens interface {
	Issue(userID uuid.UUID, email string) (access, refresh string, err error)
	IssueAccess(userID uuid.UUID, email string) (string, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

type Service struct {
	repo   Repository
	tokens Tokens
}

func NewService(repo Repository, tokens Tokens) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type RegisterParams struct {
	Email    string
	Phone    string
	Name     string
	Password string
}

type UpdateParams struct {
	Name  *string
	Email *string
	Phone *string
}

type TokenPair struct {
	Access  string
	Refresh string
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func validateRegister(p RegisterParams) error {
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return &ValidationError{Field: "email", Msg: "a valid email is required"}
	}

	if p.Phone == "" {
		return &ValidationError{Field: "phone", Msg: "phone number is required"}
	}

	if len(p.Password) < 8 {
		return &ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	return nil
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, TokenPair, error) {
	if err := validateRegister(params); err != nil {
		return nil, TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		Phone:        strings.TrimSpace(params.Phone),
		Name:         params.Name,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueAndStore(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	return u, pair, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}

		return nil, TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueAndStore(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// presented token must match the stored one exactly; an older token that
// was overwritten by a later login is rejected. The refresh token itself
// is not rotated on use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	u, err := s.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrRefreshMismatch
		}

		return "", err
	}

	if u.RefreshToken == nil || *u.RefreshToken != refreshToken {
		return "", ErrRefreshMismatch
	}

	return s.tokens.IssueAccess(u.ID, u.Email)
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateParams) (*User, error) {
	if params.Email != nil {
		// Same normalization as Register; a mixed-case stored email would
		// never match the lowercased login lookup.
		email := strings.ToLower(strings.TrimSpace(*params.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, &ValidationError{Field: "email", Msg: "a valid email is required"}
		}

		params.Email = &email
	}

	if params.Phone != nil {
		phone := strings.TrimSpace(*params.Phone)
		if phone == "" {
			return nil, &ValidationError{Field: "phone", Msg: "phone number is required"}
		}

		params.Phone = &phone
	}

	return s.repo.UpdateProfile(ctx, id, params)
}

func (s *Service) SetPhoto(ctx context.Context, id uuid.UUID, path string) error {
	return s.repo.SetPhotoPath(ctx, id, path)
}

func (s *Service) issueAndStore(ctx context.Context, u *User) (TokenPair, error) {
	access, refresh, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issuing tokens: %w", err)
	}

	// Overwrites any previous refresh token; only the newest one is valid.
	if err := s.repo.StoreRefreshToken(ctx, u.ID, refresh); err != nil {
		return TokenPair{}, err
	}

	u.RefreshToken = &refresh

	return TokenPair{Access: access, Refresh: refresh}, nil
}
