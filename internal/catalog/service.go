package catalog

import (
	"context"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateFeeItem(ctx context.Context, item *FeeItem) error
	GetFeeItem(ctx context.Context, id string) (*FeeItem, error)
	ListFeeItems(ctx context.Context) ([]*FeeItem, error)
	UpdateFeeItem(ctx context.Context, item *FeeItem) error
	DeleteFeeItem(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ID          string
	Title       string
	Description string
	Amount      int64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*FeeItem, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	id := strings.TrimSpace(params.ID)
	if id == "" || strings.TrimSpace(params.Title) == "" {
		return nil, ErrInvalidInput
	}

	item := &FeeItem{
		ID:          id,
		Title:       params.Title,
		Description: params.Description,
		Amount:      params.Amount,
	}
	if err := s.repo.CreateFeeItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

type UpdateParams struct {
	Title       *string
	Description *string
	Amount      *int64
}

// Update edits the catalog entry only. Obligations and ledger rows keep the
// amounts they were created with.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*FeeItem, error) {
	item, err := s.repo.GetFeeItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		item.Title = *params.Title
	}

	if params.Description != nil {
		item.Description = *params.Description
	}

	if params.Amount != nil {
		if *params.Amount <= 0 {
			return nil, ErrInvalidAmount
		}

		item.Amount = *params.Amount
	}

	if err := s.repo.UpdateFeeItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteFeeItem(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*FeeItem, error) {
	return s.repo.GetFeeItem(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*FeeItem, error) {
	return s.repo.ListFeeItems(ctx)
}
