package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/auth"
	"github.com/npereira/centavo/internal/http/respond"
)

type contextKey string

const userIDKey contextKey = "userID"

// Verifier is the token check the auth gate needs.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticator rejects requests without a valid bearer token. A missing
// header is 401; a token that is present but malformed or expired is 403.
func Authenticator(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, http.StatusUnauthorized, "authorization required")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, http.StatusForbidden, "invalid authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					respond.Error(w, http.StatusForbidden, "token expired")
					return
				}

				respond.Error(w, http.StatusForbidden, "invalid token")

				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated caller set by Authenticator.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}
