package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transaction not found")

// Status is the terminal state of a ledger entry. Failed entries are kept for
// audit and never retried automatically.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction is one immutable ledger entry: a payment that happened. Title
// and Amount are snapshots of the fee item at payment time, so later catalog
// edits never change what was billed.
type Transaction struct {
	ID        string
	StudentID string
	FeeItemID string
	Title     string
	Amount    int64
	MethodID  string
	PaidAt    time.Time
	Status    Status
	CreatedAt time.Time
}

// Method is payment-method reference data. Transactions store the method id,
// not a live reference, so deactivating a method leaves history intact.
type Method struct {
	ID          string
	DisplayName string
	IsActive    bool
}

// Receipt is the read-only projection handed to presentation layers.
type Receipt struct {
	TransactionID string
	StudentID     string
	FeeItemID     string
	Title         string
	Amount        int64
	Method        string
	PaidAt        time.Time
}

// NewTransactionID builds a ledger entry id. The timestamp prefix keeps ids
// roughly sortable and human-scannable; the uuid fragment makes collisions
// negligible.
func NewTransactionID(paidAt time.Time) string {
	return fmt.Sprintf("TRX-%d-%s", paidAt.Unix(), uuid.NewString()[:8])
}
