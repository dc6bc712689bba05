package obligation

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("obligation not found")
	// ErrItemNotFound is returned when ensuring an obligation against a fee
	// item the catalog does not know.
	ErrItemNotFound = errors.New("fee item not found")
	// ErrInvalidTransition is returned when a status write would break the
	// paid/paidAt pairing.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is the payment state of one student against one fee item.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPending, StatusPaid:
		return true
	}

	return false
}

// Obligation is the current state of one (student, fee item) pair. Rows are
// never deleted, only status-transitioned. PaidAt is set exactly when Status
// is paid.
type Obligation struct {
	StudentID string
	FeeItemID string
	Status    Status
	DueDate   *time.Time
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Detail annotates an obligation with the catalog's current title and amount
// for display. The amount here is the item's live price; the ledger keeps its
// own snapshot per payment.
type Detail struct {
	Obligation
	Title       string
	Description string
	Amount      int64
}

// CheckTransition validates a prospective (status, paidAt) write. It is the
// single home of the paidAt-iff-paid invariant; the service and the
// reconciliation store both go through it.
func CheckTransition(status Status, paidAt *time.Time) error {
	if !status.Valid() {
		return ErrInvalidTransition
	}

	if status == StatusPaid && paidAt == nil {
		return ErrInvalidTransition
	}

	if status != StatusPaid && paidAt != nil {
		return ErrInvalidTransition
	}

	return nil
}
