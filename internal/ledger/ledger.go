package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SectionIncome marks credit entries. Rows in this section are excluded
// from expense aggregates, and deposits insert into it automatically.
// The label is reserved; custom categories cannot take it.
const SectionIncome = "Income"

var (
	ErrNotFound     = errors.New("entry not found")
	ErrUserNotFound = errors.New("user not found")
)

// Entry is one ledger row in the infodata table. Amount is in cents.
// Target mirrors the section's spending target onto every row of the
// section; it is a denormalized cache refreshed on target updates, with
// the category's target as the source of truth.
type Entry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Section     string
	Amount      int64
	Date        time.Time
	PaymentMode string
	Note        *string
	Target      *int64
	CreatedAt   time.Time
}
