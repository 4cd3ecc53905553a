package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, id, userID uuid.UUID, params UpdateParams) (*Category, error)
	DeleteCascade(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Label       string
	Icon        string
	IconColor   string
	IconLibrary string
	Target      *int64
}

type UpdateParams struct {
	Label       *string
	Icon        *string
	IconColor   *string
	IconLibrary *string
	// Target also refreshes the per-entry cache for the section.
	Target *int64
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func validateLabel(label string) error {
	if label == "" {
		return &ValidationError{Field: "label", Msg: "label is required"}
	}

	if strings.EqualFold(label, ledger.SectionIncome) {
		return ErrReservedLabel
	}

	return nil
}

// List returns the shared defaults plus the caller's custom categories.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Category, error) {
	label := strings.TrimSpace(params.Label)
	if err := validateLabel(label); err != nil {
		return nil, err
	}

	c := &Category{
		UserID:      &userID,
		Label:       label,
		Icon:        params.Icon,
		IconColor:   params.IconColor,
		IconLibrary: params.IconLibrary,
		Target:      params.Target,
		Origin:      OriginCustom,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params UpdateParams) (*Category, error) {
	if params.Label != nil {
		label := strings.TrimSpace(*params.Label)
		if err := validateLabel(label); err != nil {
			return nil, err
		}

		params.Label = &label
	}

	return s.repo.UpdateCategory(ctx, id, userID, params)
}

// DeleteCascade removes the category and every ledger entry referencing
// its label, atomically, and reports how many entries went with it.
func (s *Service) DeleteCascade(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteCascade(ctx, id, userID)
}
