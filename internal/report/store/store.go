package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akademika/feeledger/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Overview(ctx context.Context) (*report.Overview, error) {
	query := `
		SELECT
			COALESCE(SUM(f.amount), 0),
			COALESCE(SUM(f.amount) FILTER (WHERE o.status = 'paid'), 0),
			COALESCE(SUM(f.amount) FILTER (WHERE o.status = 'unpaid'), 0),
			COALESCE(SUM(f.amount) FILTER (WHERE o.status = 'pending'), 0),
			COUNT(DISTINCT o.student_id)
		FROM obligations o
		JOIN fee_items f ON o.fee_item_id = f.id
	`

	var ov report.Overview

	err := s.db.QueryRowContext(ctx, query).Scan(
		&ov.TotalBilled, &ov.TotalPaid, &ov.TotalUnpaid, &ov.TotalPending,
		&ov.Students,
	)
	if err != nil {
		return nil, fmt.Errorf("computing overview: %w", err)
	}

	return &ov, nil
}

func (s *Store) FeeTypeBreakdown(ctx context.Context) ([]*report.FeeTypeStat, error) {
	query := `
		SELECT f.id, f.title,
			COALESCE(SUM(f.amount) FILTER (WHERE o.student_id IS NOT NULL), 0),
			COALESCE(SUM(f.amount) FILTER (WHERE o.status = 'paid'), 0),
			COALESCE(SUM(f.amount) FILTER (WHERE o.status <> 'paid'), 0)
		FROM fee_items f
		LEFT JOIN obligations o ON o.fee_item_id = f.id
		GROUP BY f.id, f.title
		ORDER BY f.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("computing fee type breakdown: %w", err)
	}
	defer rows.Close()

	var stats []*report.FeeTypeStat

	for rows.Next() {
		var st report.FeeTypeStat
		if err := rows.Scan(&st.FeeItemID, &st.Title, &st.TotalBilled, &st.TotalPaid, &st.TotalUnpaid); err != nil {
			return nil, fmt.Errorf("scanning fee type stat: %w", err)
		}

		stats = append(stats, &st)
	}

	return stats, rows.Err()
}

func (s *Store) MethodBreakdown(ctx context.Context) ([]*report.MethodStat, error) {
	query := `
		SELECT m.id, m.display_name,
			COUNT(t.id),
			COALESCE(SUM(t.amount), 0)
		FROM payment_methods m
		LEFT JOIN transactions t ON t.method_id = m.id AND t.status = 'completed'
		WHERE m.is_active
		GROUP BY m.id, m.display_name
		ORDER BY m.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("computing method breakdown: %w", err)
	}
	defer rows.Close()

	var stats []*report.MethodStat

	for rows.Next() {
		var st report.MethodStat
		if err := rows.Scan(&st.MethodID, &st.DisplayName, &st.Count, &st.Total); err != nil {
			return nil, fmt.Errorf("scanning method stat: %w", err)
		}

		stats = append(stats, &st)
	}

	return stats, rows.Err()
}

func (s *Store) StudentBalances(ctx context.Context, search string) ([]*report.StudentBalance, error) {
	query := `
		SELECT o.student_id,
			COALESCE(SUM(f.amount), 0),
			COALESCE(SUM(f.amount) FILTER (WHERE o.status <> 'paid'), 0),
			MAX(o.paid_at),
			BOOL_AND(o.status = 'paid')
		FROM obligations o
		JOIN fee_items f ON o.fee_item_id = f.id
	`

	var args []any

	if search != "" {
		query += ` WHERE o.student_id ILIKE '%' || $1 || '%'`

		args = append(args, search)
	}

	query += `
		GROUP BY o.student_id
		ORDER BY o.student_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing student balances: %w", err)
	}
	defer rows.Close()

	var balances []*report.StudentBalance

	for rows.Next() {
		var b report.StudentBalance
		if err := rows.Scan(&b.StudentID, &b.TotalBilled, &b.Outstanding, &b.LatestPayment, &b.Settled); err != nil {
			return nil, fmt.Errorf("scanning student balance: %w", err)
		}

		balances = append(balances, &b)
	}

	return balances, rows.Err()
}
