package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/akademika/feeledger/internal/ledger"
	"github.com/akademika/feeledger/internal/report"
)

func TestService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		Overview(gomock.Any()).
		Return(&report.Overview{
			TotalBilled:  8750000,
			TotalPaid:    3500000,
			TotalUnpaid:  5000000,
			TotalPending: 250000,
			Students:     2,
		}, nil)

	svc := report.NewService(repo, nil)
	got, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(8750000), got.TotalBilled)
	assert.Equal(t, int64(2), got.Students)
}

func TestService_FeeTypeBreakdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		FeeTypeBreakdown(gomock.Any()).
		Return([]*report.FeeTypeStat{
			{FeeItemID: "registration_fee", Title: "Registration Fee", TotalBilled: 10000000, TotalPaid: 5000000, TotalUnpaid: 5000000},
			{FeeItemID: "semester_fee", Title: "Semester Fee", TotalBilled: 7000000, TotalPaid: 7000000},
		}, nil)

	svc := report.NewService(repo, nil)
	got, err := svc.FeeTypeBreakdown(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].TotalBilled, got[0].TotalPaid+got[0].TotalUnpaid)
}

func TestService_StudentBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	latest := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		StudentBalances(gomock.Any(), "2024").
		Return([]*report.StudentBalance{
			{StudentID: "2024-0001", TotalBilled: 8750000, Outstanding: 0, LatestPayment: &latest, Settled: true},
			{StudentID: "2024-0002", TotalBilled: 8750000, Outstanding: 5250000},
		}, nil)

	svc := report.NewService(repo, nil)
	got, err := svc.StudentBalances(context.Background(), "2024")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Settled)
	assert.False(t, got[1].Settled)
}

func TestService_RecentTransactions_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)

	ledgerRepo := ledger.NewMockRepository(ctrl)
	ledgerRepo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Limit: 10}).
		Return([]*ledger.Transaction{{ID: "TRX-1-aaaaaaaa"}}, nil)

	svc := report.NewService(repo, ledger.NewService(ledgerRepo))
	got, err := svc.RecentTransactions(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_RecentTransactions_ExplicitLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)

	ledgerRepo := ledger.NewMockRepository(ctrl)
	ledgerRepo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Limit: 3}).
		Return(nil, nil)

	svc := report.NewService(repo, ledger.NewService(ledgerRepo))
	_, err := svc.RecentTransactions(context.Background(), 3)
	require.NoError(t, err)
}
