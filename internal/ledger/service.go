package ledger

import (
	"context"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// InsertTransaction appends tx unless an entry with the same
	// (studentID, feeItemID, paidAt) triple already exists. It reports
	// whether a row was created and returns the row that now represents
	// the triple.
	InsertTransaction(ctx context.Context, tx *Transaction) (*Transaction, bool, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	GetReceipt(ctx context.Context, transactionID string) (*Receipt, error)
	ListMethods(ctx context.Context, activeOnly bool) ([]*Method, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AppendParams struct {
	StudentID string
	FeeItemID string
	Title     string
	Amount    int64
	MethodID  string
	PaidAt    time.Time
}

type ListFilter struct {
	StudentID *string
	MethodID  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Append writes a completed ledger entry. The append is idempotent with
// respect to (StudentID, FeeItemID, PaidAt): a retried call finds the existing
// entry and returns it with created=false instead of duplicating it. This is
// what makes a re-run reconciliation pass safe.
func (s *Service) Append(ctx context.Context, params AppendParams) (*Transaction, bool, error) {
	tx := &Transaction{
		ID:        NewTransactionID(params.PaidAt),
		StudentID: params.StudentID,
		FeeItemID: params.FeeItemID,
		Title:     params.Title,
		Amount:    params.Amount,
		MethodID:  params.MethodID,
		PaidAt:    params.PaidAt,
		Status:    StatusCompleted,
	}

	return s.repo.InsertTransaction(ctx, tx)
}

// List returns ledger entries in reverse-chronological order.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Receipt(ctx context.Context, transactionID string) (*Receipt, error) {
	return s.repo.GetReceipt(ctx, transactionID)
}

func (s *Service) Methods(ctx context.Context, activeOnly bool) ([]*Method, error) {
	return s.repo.ListMethods(ctx, activeOnly)
}
