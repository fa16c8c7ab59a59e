package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tallyapp/tally-server/internal/domain"
	domainerrors "github.com/tallyapp/tally-server/internal/errors"
	"github.com/tallyapp/tally-server/internal/id"
	"github.com/tallyapp/tally-server/internal/store"
)

// CategoryService orchestrates category operations. Any active member of the
// owning book may create, edit, or delete categories; deleting one detaches
// it from expenses, never deletes them.
type CategoryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// CreateCategory creates a category in a book the actor belongs to.
func (s *CategoryService) CreateCategory(ctx context.Context, actorID, bookID, name string) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("category name cannot be empty")
	}

	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}

	catID, err := id.Generate("cat")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	cat := &domain.Category{
		ID:     catID,
		Name:   name,
		BookID: bookID,
	}

	if err := s.store.CreateCategory(ctx, cat); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("category %q already exists in this book", name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", "category_id", catID, "book_id", bookID, "name", name)
	return cat, nil
}

// GetCategory retrieves a category in a book the actor can see.
func (s *CategoryService) GetCategory(ctx context.Context, actorID, categoryID string) (*domain.Category, error) {
	cat, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, actorID, cat.BookID); err != nil {
		return nil, domainerrors.NotFound("category not found")
	}
	return cat, nil
}

// ListCategories returns the categories of a book the actor can see.
func (s *CategoryService) ListCategories(ctx context.Context, actorID, bookID string) ([]*domain.Category, error) {
	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}
	return s.store.ListCategoriesForBook(ctx, bookID)
}

// UpdateCategory renames a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, actorID, categoryID, name string) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("category name cannot be empty")
	}

	cat, err := s.GetCategory(ctx, actorID, categoryID)
	if err != nil {
		return nil, err
	}

	cat.Name = name
	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("category %q already exists in this book", name)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return cat, nil
}

// DeleteCategory removes a category. Expenses referencing it fall back to no
// category.
func (s *CategoryService) DeleteCategory(ctx context.Context, actorID, categoryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cat, err := s.GetCategory(ctx, actorID, categoryID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", categoryID, "book_id", cat.BookID)
	return nil
}
