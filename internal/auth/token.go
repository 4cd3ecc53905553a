package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its validity window has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies the two token kinds. Access and refresh tokens
// use separate secrets so one kind can never stand in for the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue returns a fresh access/refresh pair for the user. The caller is
// responsible for persisting the refresh token against the user row; only
// one refresh token is valid per user at a time.
func (i *Issuer) Issue(userID uuid.UUID, email string) (access, refresh string, err error) {
	access, err = i.sign(userID, email, i.accessSecret, i.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("signing access token: %w", err)
	}

	refresh, err = i.sign(userID, email, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("signing refresh token: %w", err)
	}

	return access, refresh, nil
}

// IssueAccess returns a new access token only, used on refresh-token rotation.
func (i *Issuer) IssueAccess(userID uuid.UUID, email string) (string, error) {
	return i.sign(userID, email, i.accessSecret, i.accessTTL)
}

func (i *Issuer) Verify(token string) (*Claims, error) {
	return i.parse(token, i.accessSecret)
}

func (i *Issuer) VerifyRefresh(token string) (*Claims, error) {
	return i.parse(token, i.refreshSecret)
}

func (i *Issuer) sign(userID uuid.UUID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) parse(token string, secret []byte) (*Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}
