package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akademika/feeledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var (
		tx        ledger.Transaction
		statusStr string
	)

	if err := s.Scan(
		&tx.ID, &tx.StudentID, &tx.FeeItemID, &tx.Title, &tx.Amount,
		&tx.MethodID, &tx.PaidAt, &statusStr, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Status = ledger.Status(statusStr)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.student_id, t.fee_item_id, t.title, t.amount,
	t.method_id, t.paid_at, t.status, t.created_at
`

// InsertTransaction appends the entry unless the (student, item, paid_at)
// triple already exists. The unique index makes the race-free idempotency
// decision; on conflict the existing row is re-read and returned.
func (s *Store) InsertTransaction(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, bool, error) {
	query := `
		INSERT INTO transactions (id, student_id, fee_item_id, title, amount, method_id, paid_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (student_id, fee_item_id, paid_at) DO NOTHING
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.ID,
		tx.StudentID,
		tx.FeeItemID,
		tx.Title,
		tx.Amount,
		tx.MethodID,
		tx.PaidAt,
		tx.Status,
	).Scan(&tx.CreatedAt)

	if err == nil {
		return tx, true, nil
	}

	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("inserting transaction: %w", err)
	}

	existing, err := s.getByTriple(ctx, tx.StudentID, tx.FeeItemID, tx.PaidAt)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

func (s *Store) getByTriple(ctx context.Context, studentID, feeItemID string, paidAt time.Time) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.student_id = $1 AND t.fee_item_id = $2 AND t.paid_at = $3`

	existing, err := scanTransaction(s.db.QueryRowContext(ctx, query, studentID, feeItemID, paidAt))
	if err != nil {
		return nil, fmt.Errorf("reading existing transaction: %w", err)
	}

	return existing, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND t.student_id = $%d", argIdx)

		args = append(args, *filter.StudentID)
		argIdx++
	}

	if filter.MethodID != nil {
		query += fmt.Sprintf(" AND t.method_id = $%d", argIdx)

		args = append(args, *filter.MethodID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.paid_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.paid_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.paid_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func (s *Store) GetReceipt(ctx context.Context, transactionID string) (*ledger.Receipt, error) {
	query := `
		SELECT t.id, t.student_id, t.fee_item_id, t.title, t.amount,
		       COALESCE(m.display_name, t.method_id), t.paid_at
		FROM transactions t
		LEFT JOIN payment_methods m ON t.method_id = m.id
		WHERE t.id = $1
	`

	var r ledger.Receipt

	err := s.db.QueryRowContext(ctx, query, transactionID).Scan(
		&r.TransactionID, &r.StudentID, &r.FeeItemID, &r.Title, &r.Amount,
		&r.Method, &r.PaidAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting receipt: %w", err)
	}

	return &r, nil
}

func (s *Store) ListMethods(ctx context.Context, activeOnly bool) ([]*ledger.Method, error) {
	query := `SELECT id, display_name, is_active FROM payment_methods`
	if activeOnly {
		query += ` WHERE is_active`
	}

	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*ledger.Method

	for rows.Next() {
		var m ledger.Method
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scanning payment method: %w", err)
		}

		methods = append(methods, &m)
	}

	return methods, rows.Err()
}
