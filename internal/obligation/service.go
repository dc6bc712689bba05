package obligation

import (
	"context"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=obligation
type Repository interface {
	EnsureObligation(ctx context.Context, studentID, feeItemID string, dueDate *time.Time) (bool, error)
	GetObligation(ctx context.Context, studentID, feeItemID string) (*Obligation, error)
	ListObligations(ctx context.Context, studentID string) ([]*Detail, error)
	SetStatus(ctx context.Context, studentID, feeItemID string, status Status, paidAt *time.Time) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Ensure creates an unpaid obligation for the pair if none exists. Calling it
// again is a no-op; the returned bool reports whether a row was created. This
// is the hook the enrollment system calls when a student becomes liable.
func (s *Service) Ensure(ctx context.Context, studentID, feeItemID string, dueDate *time.Time) (bool, error) {
	return s.repo.EnsureObligation(ctx, studentID, feeItemID, dueDate)
}

func (s *Service) List(ctx context.Context, studentID string) ([]*Detail, error) {
	return s.repo.ListObligations(ctx, studentID)
}

func (s *Service) Get(ctx context.Context, studentID, feeItemID string) (*Obligation, error) {
	return s.repo.GetObligation(ctx, studentID, feeItemID)
}

// SetStatus is the low-level status primitive. It is not exposed over HTTP:
// paid transitions must be paired with a ledger append, which is the
// reconciliation workflow's job.
func (s *Service) SetStatus(ctx context.Context, studentID, feeItemID string, status Status, paidAt *time.Time) error {
	if err := CheckTransition(status, paidAt); err != nil {
		return err
	}

	return s.repo.SetStatus(ctx, studentID, feeItemID, status, paidAt)
}
