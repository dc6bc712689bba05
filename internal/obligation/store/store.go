package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akademika/feeledger/internal/obligation"
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

func scanObligation(s scanner) (*obligation.Obligation, error) {
	var (
		o         obligation.Obligation
		statusStr string
	)

	if err := s.Scan(
		&o.StudentID, &o.FeeItemID, &statusStr, &o.DueDate, &o.PaidAt,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.Status = obligation.Status(statusStr)

	return &o, nil
}

const selectObligationColumns = `
	o.student_id, o.fee_item_id, o.status, o.due_date, o.paid_at,
	o.created_at, o.updated_at
`

func (s *Store) EnsureObligation(ctx context.Context, studentID, feeItemID string, dueDate *time.Time) (bool, error) {
	query := `
		INSERT INTO obligations (student_id, fee_item_id, status, due_date, created_at)
		VALUES ($1, $2, 'unpaid', $3, NOW())
		ON CONFLICT (student_id, fee_item_id) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, studentID, feeItemID, dueDate)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, obligation.ErrItemNotFound
		}

		return false, fmt.Errorf("ensuring obligation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ensuring obligation: %w", err)
	}

	return n > 0, nil
}

func (s *Store) GetObligation(ctx context.Context, studentID, feeItemID string) (*obligation.Obligation, error) {
	query := `SELECT ` + selectObligationColumns + `
		FROM obligations o
		WHERE o.student_id = $1 AND o.fee_item_id = $2`

	o, err := scanObligation(s.db.QueryRowContext(ctx, query, studentID, feeItemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, obligation.ErrNotFound
		}

		return nil, fmt.Errorf("getting obligation: %w", err)
	}

	return o, nil
}

func (s *Store) ListObligations(ctx context.Context, studentID string) ([]*obligation.Detail, error) {
	query := `SELECT ` + selectObligationColumns + `,
		f.title, f.description, f.amount
		FROM obligations o
		JOIN fee_items f ON o.fee_item_id = f.id
		WHERE o.student_id = $1
		ORDER BY o.fee_item_id ASC`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing obligations: %w", err)
	}
	defer rows.Close()

	var details []*obligation.Detail

	for rows.Next() {
		var (
			d         obligation.Detail
			statusStr string
		)

		if err := rows.Scan(
			&d.StudentID, &d.FeeItemID, &statusStr, &d.DueDate, &d.PaidAt,
			&d.CreatedAt, &d.UpdatedAt,
			&d.Title, &d.Description, &d.Amount,
		); err != nil {
			return nil, fmt.Errorf("scanning obligation: %w", err)
		}

		d.Status = obligation.Status(statusStr)
		details = append(details, &d)
	}

	return details, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, studentID, feeItemID string, status obligation.Status, paidAt *time.Time) error {
	query := `
		UPDATE obligations
		SET status = $1, paid_at = $2, updated_at = NOW()
		WHERE student_id = $3 AND fee_item_id = $4
	`

	res, err := s.db.ExecContext(ctx, query, status, paidAt, studentID, feeItemID)
	if err != nil {
		return fmt.Errorf("setting obligation status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return obligation.ErrNotFound
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
