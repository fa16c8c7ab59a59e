package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, description, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.AccountBook.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.AccountBook, error) {
	var b domain.AccountBook
	var createdAt, updatedAt string

	err := scanner.Scan(&b.ID, &b.Title, &b.Description, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBookWithCreator inserts a book and the creator authority in one
// transaction. If either insert fails, neither persists.
func (s *Store) CreateBookWithCreator(ctx context.Context, book *domain.AccountBook, auth *domain.Authority) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO account_books (id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Description,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert book: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO authorities (id, user_id, book_id, role)
		VALUES (?, ?, ?, ?)`,
		auth.ID, auth.UserID, auth.BookID, int(auth.Role),
	)
	if err != nil {
		return fmt.Errorf("insert creator authority: %w", err)
	}

	return tx.Commit()
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.AccountBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM account_books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooksForUser returns the books on which the user holds an active
// (non-left) authority row, newest first.
func (s *Store) ListBooksForUser(ctx context.Context, userID string) ([]*domain.AccountBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.description, b.created_at, b.updated_at
		FROM account_books b
		JOIN authorities a ON a.book_id = b.id
		WHERE a.user_id = ? AND a.role != ?
		ORDER BY b.created_at DESC`,
		userID, int(domain.RoleLeft))
	if err != nil {
		return nil, fmt.Errorf("query books for user: %w", err)
	}
	defer rows.Close()

	var books []*domain.AccountBook
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook updates the book's title, description, and updated_at.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.AccountBook) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE account_books SET title = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		book.Title, book.Description, formatTime(book.UpdatedAt), book.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
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

// DestroyBook hard-deletes the book. Foreign keys cascade the delete to
// authorities, categories, expenses, and through expenses to proportions.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DestroyBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM account_books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
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
