package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akademika/feeledger/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFeeItem(s scanner) (*catalog.FeeItem, error) {
	var item catalog.FeeItem

	if err := s.Scan(
		&item.ID, &item.Title, &item.Description, &item.Amount,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &item, nil
}

const selectFeeItemColumns = `id, title, description, amount, created_at, updated_at`

func (s *Store) CreateFeeItem(ctx context.Context, item *catalog.FeeItem) error {
	query := `
		INSERT INTO fee_items (id, title, description, amount, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Amount,
	).Scan(&item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrDuplicateID
		}

		return fmt.Errorf("creating fee item: %w", err)
	}

	return nil
}

func (s *Store) GetFeeItem(ctx context.Context, id string) (*catalog.FeeItem, error) {
	query := `SELECT ` + selectFeeItemColumns + ` FROM fee_items WHERE id = $1`

	item, err := scanFeeItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting fee item: %w", err)
	}

	return item, nil
}

func (s *Store) ListFeeItems(ctx context.Context) ([]*catalog.FeeItem, error) {
	query := `SELECT ` + selectFeeItemColumns + ` FROM fee_items ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing fee items: %w", err)
	}
	defer rows.Close()

	var items []*catalog.FeeItem

	for rows.Next() {
		item, err := scanFeeItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fee item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *Store) UpdateFeeItem(ctx context.Context, item *catalog.FeeItem) error {
	query := `
		UPDATE fee_items
		SET title = $1, description = $2, amount = $3, updated_at = NOW()
		WHERE id = $4
	`

	res, err := s.db.ExecContext(ctx, query,
		item.Title,
		item.Description,
		item.Amount,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating fee item: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

// DeleteFeeItem removes a catalog entry. Items that any obligation still
// references are protected; the check and the delete run in one transaction so
// an obligation created in between cannot orphan itself.
func (s *Store) DeleteFeeItem(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var referenced bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM obligations WHERE fee_item_id = $1)`, id,
	).Scan(&referenced); err != nil {
		return fmt.Errorf("checking obligation references: %w", err)
	}

	if referenced {
		return catalog.ErrReferenced
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM fee_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting fee item: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
