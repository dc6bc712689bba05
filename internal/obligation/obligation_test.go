package obligation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akademika/feeledger/internal/obligation"
)

func TestStatus_Valid(t *testing.T) {
	assert.True(t, obligation.StatusUnpaid.Valid())
	assert.True(t, obligation.StatusPending.Valid())
	assert.True(t, obligation.StatusPaid.Valid())
	assert.False(t, obligation.Status("").Valid())
	assert.False(t, obligation.Status("PAID").Valid())
	assert.False(t, obligation.Status("refunded").Valid())
}

func TestCheckTransition(t *testing.T) {
	now := time.Now()

	type testCase struct {
		name    string
		status  obligation.Status
		paidAt  *time.Time
		wantErr bool
	}

	tests := []testCase{
		{name: "PaidWithTimestamp", status: obligation.StatusPaid, paidAt: &now},
		{name: "UnpaidWithoutTimestamp", status: obligation.StatusUnpaid},
		{name: "PendingWithoutTimestamp", status: obligation.StatusPending},
		{name: "PaidWithoutTimestamp", status: obligation.StatusPaid, wantErr: true},
		{name: "UnpaidWithTimestamp", status: obligation.StatusUnpaid, paidAt: &now, wantErr: true},
		{name: "PendingWithTimestamp", status: obligation.StatusPending, paidAt: &now, wantErr: true},
		{name: "UnknownStatus", status: obligation.Status("settled"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := obligation.CheckTransition(tt.status, tt.paidAt)

			if tt.wantErr {
				assert.ErrorIs(t, err, obligation.ErrInvalidTransition)
				return
			}

			assert.NoError(t, err)
		})
	}
}
