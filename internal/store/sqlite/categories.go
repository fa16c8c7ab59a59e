package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/store"
)

const categoryColumns = `id, name, book_id`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.BookID); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category.
// Returns store.ErrAlreadyExists when the name is taken within the book.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, book_id)
		VALUES (?, ?, ?)`,
		c.ID, c.Name, c.BookID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategoriesForBook returns the book's categories ordered by name.
func (s *Store) ListCategoriesForBook(ctx context.Context, bookID string) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE book_id = ? ORDER BY name`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query categories for book: %w", err)
	}
	defer rows.Close()

	var cats []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// UpdateCategory renames a category.
// Returns store.ErrAlreadyExists on a name collision within the book and
// store.ErrNotFound if the category does not exist.
func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, c.Name, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("update category: %w", err)
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

// DeleteCategory removes a category. The category_id foreign key on expenses
// is declared ON DELETE SET NULL, so referencing expenses fall back to no
// category rather than being deleted.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
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
