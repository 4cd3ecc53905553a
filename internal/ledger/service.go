package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, id, userID uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Entry, error)
	UpdateEntry(ctx context.Context, id, userID uuid.UUID, params UpdateParams) ([]*Entry, error)
	DeleteEntry(ctx context.Context, id, userID uuid.UUID) error
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta int64, paymentMode string) (int64, error)

	BeginBatch(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (BatchTx, error)
}

// BatchTx groups a statement import into one transaction, serialized per
// user and date range by an advisory lock.
type BatchTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Entry, error)
	CreateEntries(ctx context.Context, entries []*Entry) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Section     string
	Amount      int64
	Date        time.Time
	PaymentMode string
	Note        *string
}

type UpdateParams struct {
	Section     *string
	Amount      *int64
	Date        *time.Time
	PaymentMode *string
	Note        *string
	// Target, when set, is propagated to every row of the entry's
	// (post-update) section.
	Target *int64
}

type ListFilter struct {
	Section  *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane bounds instead of rejecting:
// page < 1 becomes 1, size < 1 becomes the default, oversized pages are
// capped.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}

	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func validateCreate(p CreateParams) error {
	if p.Section == "" {
		return &ValidationError{Field: "section", Msg: "section is required"}
	}

	if p.Amount == 0 {
		return &ValidationError{Field: "amount", Msg: "amount must be non-zero"}
	}

	if p.Date.IsZero() {
		return &ValidationError{Field: "date", Msg: "date is required"}
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Entry, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}

	e := &Entry{
		UserID:      userID,
		Section:     params.Section,
		Amount:      params.Amount,
		Date:        params.Date,
		PaymentMode: params.PaymentMode,
		Note:        params.Note,
	}
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Entry, error) {
	filter.Normalize()
	return s.repo.ListEntries(ctx, userID, filter)
}

// Update changes one entry and, when a target is supplied, stamps that
// target onto every entry sharing the section. The full refreshed section
// row set is returned so the caller sees the propagated value.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params UpdateParams) ([]*Entry, error) {
	if params.Section != nil && *params.Section == "" {
		return nil, &ValidationError{Field: "section", Msg: "section cannot be empty"}
	}

	if params.Amount != nil && *params.Amount == 0 {
		return nil, &ValidationError{Field: "amount", Msg: "amount must be non-zero"}
	}

	return s.repo.UpdateEntry(ctx, id, userID, params)
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.DeleteEntry(ctx, id, userID)
}

// Deposit adds to the user's balance and records the matching income
// entry; both happen in one transaction or not at all.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount int64, paymentMode string) (int64, error) {
	if amount <= 0 {
		return 0, &ValidationError{Field: "amount", Msg: "deposit must be positive"}
	}

	return s.repo.AdjustBalance(ctx, userID, amount, paymentMode)
}

// Withdraw deducts from the balance without a ledger entry.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, &ValidationError{Field: "amount", Msg: "withdrawal must be positive"}
	}

	return s.repo.AdjustBalance(ctx, userID, -amount, "")
}

type ImportResult struct {
	Imported  []*Entry
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Entry
}

type dupKey struct {
	Date    string
	Amount  int64
	Section string
	Note    string
}

func keyOf(date time.Time, amount int64, section string, note *string) dupKey {
	k := dupKey{
		Date:    date.Format(time.DateOnly),
		Amount:  amount,
		Section: section,
	}
	if note != nil {
		k.Note = *note
	}

	return k
}

// ImportBatch inserts a statement's worth of entries atomically. When any
// incoming row matches an existing one on (date, amount, section, note),
// nothing is written and the split into new rows and conflicts is
// returned for review.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for _, p := range params {
		if err := validateCreate(p); err != nil {
			return nil, err
		}
	}

	minDate, maxDate := dateRange(params)

	btx, err := s.repo.BeginBatch(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	duplicates, err := btx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Entry, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Section, d.Note)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Section, p.Note)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	entries := paramsToEntries(userID, newParams)
	if err := btx.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return &ImportResult{Imported: entries}, nil
}

// CreateBatch force-creates the given entries, used after the caller has
// reviewed an import's conflicts.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for _, p := range params {
		if err := validateCreate(p); err != nil {
			return nil, err
		}
	}

	minDate, maxDate := dateRange(params)

	btx, err := s.repo.BeginBatch(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	entries := paramsToEntries(userID, params)
	if err := btx.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return entries, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
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

	return minDate, maxDate
}

func paramsToEntries(userID uuid.UUID, params []CreateParams) []*Entry {
	entries := make([]*Entry, len(params))
	for i, p := range params {
		entries[i] = &Entry{
			UserID:      userID,
			Section:     p.Section,
			Amount:      p.Amount,
			Date:        p.Date,
			PaymentMode: p.PaymentMode,
			Note:        p.Note,
		}
	}

	return entries
}
