package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/akademika/feeledger/internal/ledger"
	"github.com/akademika/feeledger/internal/obligation"
	obligationStore "github.com/akademika/feeledger/internal/obligation/store"
)

// Store implements reconcile.Repository. Reads delegate to the obligation
// store; the two writes run their own transactions here because a paid flip
// and its ledger append must commit or fail together.
type Store struct {
	db          *sql.DB
	obligations *obligationStore.Store
}

func New(db *sql.DB) *Store {
	return &Store{db: db, obligations: obligationStore.New(db)}
}

func (s *Store) ListObligations(ctx context.Context, studentID string) ([]*obligation.Detail, error) {
	return s.obligations.ListObligations(ctx, studentID)
}

func studentLockKey(studentID string) int64 {
	h := fnv.New64a()
	h.Write([]byte("reconcile"))
	h.Write([]byte{0})
	h.Write([]byte(studentID))

	return int64(h.Sum64())
}

// MarkPaid transitions the obligation to paid and appends the ledger entry
// atomically. The ledger insert snapshots the fee item's current title and
// amount. The advisory lock serializes applies for one student across
// service instances; the unique (student, item, paid_at) index makes a
// retried apply find the existing entry instead of creating a second one.
func (s *Store) MarkPaid(ctx context.Context, studentID, feeItemID string, paidAt time.Time, methodID string) (*ledger.Transaction, bool, error) {
	if err := obligation.CheckTransition(obligation.StatusPaid, &paidAt); err != nil {
		return nil, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", studentLockKey(studentID)); err != nil {
		return nil, false, fmt.Errorf("acquiring student lock: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE obligations
		SET status = 'paid', paid_at = $1, updated_at = NOW()
		WHERE student_id = $2 AND fee_item_id = $3
	`, paidAt, studentID, feeItemID)
	if err != nil {
		return nil, false, fmt.Errorf("marking obligation paid: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, false, obligation.ErrNotFound
	}

	entry := &ledger.Transaction{
		ID:        ledger.NewTransactionID(paidAt),
		StudentID: studentID,
		FeeItemID: feeItemID,
		MethodID:  methodID,
		PaidAt:    paidAt,
		Status:    ledger.StatusCompleted,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (id, student_id, fee_item_id, title, amount, method_id, paid_at, status, created_at)
		SELECT $1, $2, $3, f.title, f.amount, $4, $5, $6, NOW()
		FROM fee_items f
		WHERE f.id = $3
		ON CONFLICT (student_id, fee_item_id, paid_at) DO NOTHING
		RETURNING title, amount, created_at
	`, entry.ID, studentID, feeItemID, methodID, paidAt, entry.Status).
		Scan(&entry.Title, &entry.Amount, &entry.CreatedAt)

	created := true

	if err == sql.ErrNoRows {
		// Same triple already in the ledger: a retried apply. Reuse it.
		created = false

		entry, err = scanExisting(ctx, tx, studentID, feeItemID, paidAt)
		if err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, fmt.Errorf("appending transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing paid transition: %w", err)
	}

	return entry, created, nil
}

func scanExisting(ctx context.Context, tx *sql.Tx, studentID, feeItemID string, paidAt time.Time) (*ledger.Transaction, error) {
	var (
		entry     ledger.Transaction
		statusStr string
	)

	err := tx.QueryRowContext(ctx, `
		SELECT id, student_id, fee_item_id, title, amount, method_id, paid_at, status, created_at
		FROM transactions
		WHERE student_id = $1 AND fee_item_id = $2 AND paid_at = $3
	`, studentID, feeItemID, paidAt).Scan(
		&entry.ID, &entry.StudentID, &entry.FeeItemID, &entry.Title, &entry.Amount,
		&entry.MethodID, &entry.PaidAt, &statusStr, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("reading existing transaction: %w", err)
	}

	entry.Status = ledger.Status(statusStr)

	return &entry, nil
}

// MarkStatus flips the obligation to a non-paid status. Reversals
// (paid -> unpaid) clear paid_at but never touch the ledger: the historical
// entry stays as the audit trail of a since-reversed payment.
func (s *Store) MarkStatus(ctx context.Context, studentID, feeItemID string, status obligation.Status) error {
	if err := obligation.CheckTransition(status, nil); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", studentLockKey(studentID)); err != nil {
		return fmt.Errorf("acquiring student lock: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE obligations
		SET status = $1, paid_at = NULL, updated_at = NOW()
		WHERE student_id = $2 AND fee_item_id = $3
	`, status, studentID, feeItemID)
	if err != nil {
		return fmt.Errorf("setting obligation status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return obligation.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing status change: %w", err)
	}

	return nil
}
