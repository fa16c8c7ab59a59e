package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/store"
)

const expenseColumns = `id, name, note, creator_id, category_id, book_id,
	receipt_path, is_repay, description, spent_at, created_at, updated_at`

func scanExpense(scanner interface{ Scan(dest ...any) error }) (*domain.Expense, error) {
	var e domain.Expense
	var (
		categoryID  sql.NullString
		receiptPath sql.NullString
		spentAt     string
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&e.ID,
		&e.Name,
		&e.Note,
		&e.CreatorID,
		&categoryID,
		&e.BookID,
		&receiptPath,
		&e.IsRepay,
		&e.Description,
		&spentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		e.CategoryID = categoryID.String
	}
	if receiptPath.Valid {
		e.ReceiptPath = receiptPath.String
	}

	e.SpentAt, err = parseTime(spentAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateExpenseWithProportion inserts an expense together with the zero-fee
// proportion for the paying user in one transaction. If the proportion insert
// fails, no expense row is left behind.
func (s *Store) CreateExpenseWithProportion(ctx context.Context, e *domain.Expense, p *domain.Proportion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (
			id, name, note, creator_id, category_id, book_id,
			receipt_path, is_repay, description, spent_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Name,
		e.Note,
		e.CreatorID,
		nullString(e.CategoryID),
		e.BookID,
		nullString(e.ReceiptPath),
		e.IsRepay,
		e.Description,
		formatTime(e.SpentAt),
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert expense: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO proportions (id, user_id, fee, expense_id)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.UserID, p.Fee, p.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("insert creator proportion: %w", err)
	}

	return tx.Commit()
}

// GetExpense retrieves an expense by ID.
// Returns store.ErrNotFound if the expense does not exist.
func (s *Store) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpensesForBook lists the book's expenses, newest spend date first,
// optionally filtered by the repayment flag.
func (s *Store) ListExpensesForBook(ctx context.Context, bookID string, repay *bool) ([]*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE book_id = ?`
	args := []any{bookID}
	if repay != nil {
		query += ` AND is_repay = ?`
		args = append(args, *repay)
	}
	query += ` ORDER BY spent_at DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses for book: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense updates the mutable fields of an expense.
// Returns store.ErrNotFound if the expense does not exist.
func (s *Store) UpdateExpense(ctx context.Context, e *domain.Expense) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET
			name = ?, note = ?, category_id = ?, receipt_path = ?,
			is_repay = ?, description = ?, spent_at = ?, updated_at = ?
		WHERE id = ?`,
		e.Name,
		e.Note,
		nullString(e.CategoryID),
		nullString(e.ReceiptPath),
		e.IsRepay,
		e.Description,
		formatTime(e.SpentAt),
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
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

// DeleteExpense removes an expense; its proportions cascade with it.
// Returns store.ErrNotFound if the expense does not exist.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
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
