package report

import (
	"context"

	"github.com/akademika/feeledger/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	Overview(ctx context.Context) (*Overview, error)
	FeeTypeBreakdown(ctx context.Context) ([]*FeeTypeStat, error)
	MethodBreakdown(ctx context.Context) ([]*MethodStat, error)
	StudentBalances(ctx context.Context, search string) ([]*StudentBalance, error)
}

// Service computes dashboard statistics. Every call scans current state;
// nothing here maintains running counters, so concurrent reconciliation can
// at worst make a reading stale by one write, never drift it.
type Service struct {
	repo   Repository
	ledger *ledger.Service
}

func NewService(repo Repository, ledgerSvc *ledger.Service) *Service {
	return &Service{repo: repo, ledger: ledgerSvc}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	return s.repo.Overview(ctx)
}

func (s *Service) FeeTypeBreakdown(ctx context.Context) ([]*FeeTypeStat, error) {
	return s.repo.FeeTypeBreakdown(ctx)
}

func (s *Service) MethodBreakdown(ctx context.Context) ([]*MethodStat, error) {
	return s.repo.MethodBreakdown(ctx)
}

func (s *Service) StudentBalances(ctx context.Context, search string) ([]*StudentBalance, error) {
	return s.repo.StudentBalances(ctx, search)
}

const defaultRecentLimit = 10

// RecentTransactions is a thin wrapper over the ledger listing, newest first.
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]*ledger.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	return s.ledger.List(ctx, ledger.ListFilter{Limit: limit})
}
