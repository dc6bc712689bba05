package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("fee item not found")
	ErrDuplicateID   = errors.New("fee item id already exists")
	ErrInvalidAmount = errors.New("fee item amount must be positive")
	ErrInvalidInput  = errors.New("fee item id and title are required")
	// ErrReferenced is returned when deleting a fee item that still has
	// obligations pointing at it.
	ErrReferenced = errors.New("fee item is referenced by obligations")
)

// FeeItem is a billable category from the fee catalog, e.g. "semester" or
// "registration". Amounts are in minor currency units. Historical ledger
// entries snapshot title and amount at payment time, so editing an item never
// rewrites history.
type FeeItem struct {
	ID          string
	Title       string
	Description string
	Amount      int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
