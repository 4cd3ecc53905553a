package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE raised by Postgres when the server-side connection limit is hit.
const codeTooManyConnections = "53300"

const maxAttempts = 3

// retryDelay is the backoff unit; attempt n waits n*retryDelay before
// running again. Overridable via SetRetryDelay so tests stay fast.
var retryDelay = 100 * time.Millisecond

func SetRetryDelay(d time.Duration) {
	retryDelay = d
}

// IsTransient reports whether err is the pool-exhaustion condition that is
// safe to retry. Every other failure propagates immediately.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeTooManyConnections
	}

	return false
}

// WithRetry runs op up to maxAttempts times, backing off linearly between
// attempts, and only when the failure is transient. The last error is
// returned once attempts are exhausted.
func WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}

		if !IsTransient(err) {
			return err
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(time.Duration(attempt) * retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}
