package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/store"
)

const proportionColumns = `id, user_id, fee, expense_id`

func scanProportion(scanner interface{ Scan(dest ...any) error }) (*domain.Proportion, error) {
	var p domain.Proportion
	if err := scanner.Scan(&p.ID, &p.UserID, &p.Fee, &p.ExpenseID); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProportion inserts a proportion.
// Returns store.ErrAlreadyExists when the user already has a share of the
// expense and store.ErrInvalidInput when the fee is negative.
func (s *Store) CreateProportion(ctx context.Context, p *domain.Proportion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proportions (id, user_id, fee, expense_id)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.UserID, p.Fee, p.ExpenseID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		if isCheckViolation(err) {
			return store.ErrInvalidInput.WithMessage("fee must be non-negative")
		}
		return fmt.Errorf("insert proportion: %w", err)
	}
	return nil
}

// GetProportion retrieves a proportion by ID.
// Returns store.ErrNotFound if the proportion does not exist.
func (s *Store) GetProportion(ctx context.Context, id string) (*domain.Proportion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+proportionColumns+` FROM proportions WHERE id = ?`, id)

	p, err := scanProportion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProportionsForExpense returns the expense's proportions.
func (s *Store) ListProportionsForExpense(ctx context.Context, expenseID string) ([]*domain.Proportion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+proportionColumns+` FROM proportions WHERE expense_id = ? ORDER BY user_id`,
		expenseID)
	if err != nil {
		return nil, fmt.Errorf("query proportions for expense: %w", err)
	}
	defer rows.Close()

	var props []*domain.Proportion
	for rows.Next() {
		p, err := scanProportion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proportion: %w", err)
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// UpdateProportion sets the fee of a proportion.
// Returns store.ErrNotFound if the proportion does not exist.
func (s *Store) UpdateProportion(ctx context.Context, p *domain.Proportion) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE proportions SET fee = ? WHERE id = ?`, p.Fee, p.ID)
	if err != nil {
		if isCheckViolation(err) {
			return store.ErrInvalidInput.WithMessage("fee must be non-negative")
		}
		return fmt.Errorf("update proportion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteProportion removes a proportion.
// Returns store.ErrNotFound if the proportion does not exist.
func (s *Store) DeleteProportion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM proportions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete proportion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
