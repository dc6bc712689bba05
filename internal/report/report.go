package report

import "time"

// Overview is the dashboard headline: obligation amounts grouped by status.
// It is computed from the obligation store, not the ledger, so a reversed
// payment stops counting as paid even though its ledger entry remains.
type Overview struct {
	TotalBilled  int64
	TotalPaid    int64
	TotalUnpaid  int64
	TotalPending int64
	Students     int64
}

// FeeTypeStat is the per-item breakdown of billed vs settled amounts.
type FeeTypeStat struct {
	FeeItemID   string
	Title       string
	TotalBilled int64
	TotalPaid   int64
	TotalUnpaid int64
}

// MethodStat counts completed ledger entries per payment method.
type MethodStat struct {
	MethodID    string
	DisplayName string
	Count       int64
	Total       int64
}

// StudentBalance is one row of the payment-management screen: how much a
// student was billed, what is still outstanding, and their latest payment.
type StudentBalance struct {
	StudentID     string
	TotalBilled   int64
	Outstanding   int64
	LatestPayment *time.Time
	Settled       bool
}
