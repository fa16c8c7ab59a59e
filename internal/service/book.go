package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyapp/tally-server/internal/domain"
	domainerrors "github.com/tallyapp/tally-server/internal/errors"
	"github.com/tallyapp/tally-server/internal/id"
	"github.com/tallyapp/tally-server/internal/store"
)

// BookService orchestrates account book operations. A delete request resolves
// through the actor's own role: creators destroy the book, everyone else
// leaves it.
type BookService struct {
	store  store.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		logger: logger,
	}
}

// CreateBook creates a book and grants the actor a creator authority in one
// transaction; if either step fails, neither persists.
func (s *BookService) CreateBook(ctx context.Context, actorID, title, description string) (*domain.AccountBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if title == "" {
		return nil, domainerrors.Validation("book title cannot be empty")
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}
	authID, err := id.Generate("auth")
	if err != nil {
		return nil, fmt.Errorf("generate authority ID: %w", err)
	}

	now := time.Now()
	book := &domain.AccountBook{
		ID:          bookID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	auth := &domain.Authority{
		ID:     authID,
		UserID: actorID,
		BookID: bookID,
		Role:   domain.RoleCreator,
	}

	if err := s.store.CreateBookWithCreator(ctx, book, auth); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"creator_id", actorID,
		"title", title,
	)

	return book, nil
}

// GetBook retrieves a book the actor can see.
func (s *BookService) GetBook(ctx context.Context, actorID, bookID string) (*domain.AccountBook, error) {
	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}
	return s.store.GetBook(ctx, bookID)
}

// ListBooks returns the books on which the actor holds an active membership.
func (s *BookService) ListBooks(ctx context.Context, actorID string) ([]*domain.AccountBook, error) {
	return s.store.ListBooksForUser(ctx, actorID)
}

// UpdateBook updates a book's title and description. Any active member may
// edit book metadata.
func (s *BookService) UpdateBook(ctx context.Context, actorID, bookID, title, description string) (*domain.AccountBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		book.Title = title
	}
	book.Description = description
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// DeleteBook resolves a delete request through the actor's role on the book.
// A creator destroys the book with full cascade; any other member's delete is
// reinterpreted as leaving. Returns the action taken.
func (s *BookService) DeleteBook(ctx context.Context, actorID, bookID string) (domain.BookDeleteAction, error) {
	if err := ctx.Err(); err != nil {
		return domain.BookDeleteDenied, err
	}

	me, err := requireMember(ctx, s.store, actorID, bookID)
	if err != nil {
		return domain.BookDeleteDenied, err
	}

	switch action := domain.DecideBookDelete(me); action {
	case domain.BookDeleteDestroy:
		if err := s.store.DestroyBook(ctx, bookID); err != nil {
			return domain.BookDeleteDenied, fmt.Errorf("destroy book: %w", err)
		}
		s.logger.Info("book destroyed", "book_id", bookID, "actor_id", actorID)
		return action, nil

	case domain.BookDeleteLeave:
		if _, err := s.store.LeaveBook(ctx, actorID, bookID); err != nil {
			return domain.BookDeleteDenied, fmt.Errorf("leave book: %w", err)
		}
		s.logger.Info("book left via delete", "book_id", bookID, "actor_id", actorID)
		return action, nil

	default:
		return domain.BookDeleteDenied, domainerrors.NotFound("book not found")
	}
}

// LeaveBook demotes the actor's own membership on the book to left.
// Idempotent; NotFound when the actor has no row on the book.
func (s *BookService) LeaveBook(ctx context.Context, actorID, bookID string) (*domain.Authority, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	auth, err := s.store.LeaveBook(ctx, actorID, bookID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("book left", "book_id", bookID, "actor_id", actorID)
	return auth, nil
}
