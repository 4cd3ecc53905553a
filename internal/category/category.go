package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Origin distinguishes the seeded default categories from user-created
// ones. A stored attribute, not a name-list membership test, so a custom
// label that happens to match a default name stays unambiguous.
type Origin string

const (
	OriginDefault Origin = "default"
	OriginCustom  Origin = "custom"
)

var (
	ErrNotFound   = errors.New("category not found")
	ErrLabelTaken = errors.New("category label already exists")
	// ErrReservedLabel guards the income section name; allowing a custom
	// category called "Income" would collide with deposit bookkeeping.
	ErrReservedLabel = errors.New("category label is reserved")
)

// Category groups ledger entries by label. UserID is nil for the shared
// defaults. Target is the section's spending ceiling in cents and the
// source of truth for the per-entry target cache.
type Category struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Label       string
	Icon        string
	IconColor   string
	IconLibrary string
	Target      *int64
	Origin      Origin
	CreatedAt   time.Time
}
