package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/store"
)

func TestCreateBookWithCreator(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	book := &domain.AccountBook{
		ID:          "book-1",
		Title:       "Trip",
		Description: "Summer trip expenses",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	auth := &domain.Authority{ID: "auth-1", UserID: "user-a", BookID: "book-1", Role: domain.RoleCreator}

	if err := s.CreateBookWithCreator(ctx, book, auth); err != nil {
		t.Fatalf("CreateBookWithCreator: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "Trip" {
		t.Errorf("Title: got %q, want %q", got.Title, "Trip")
	}
	if got.Description != "Summer trip expenses" {
		t.Errorf("Description: got %q", got.Description)
	}
	if got.CreatedAt.Unix() != now.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, now)
	}

	a, err := s.GetAuthorityForUser(ctx, "user-a", "book-1")
	if err != nil {
		t.Fatalf("GetAuthorityForUser: %v", err)
	}
	if a.Role != domain.RoleCreator {
		t.Errorf("Role: got %v, want creator", a.Role)
	}
}

// A failed creator authority insert must roll the book back too.
func TestCreateBookWithCreator_Atomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestBook(t, s, "book-1", "user-a")

	now := time.Now()
	book := &domain.AccountBook{ID: "book-2", Title: "Second", CreatedAt: now, UpdatedAt: now}
	// Duplicate authority ID forces the second insert to fail.
	auth := &domain.Authority{ID: "auth-book-1-user-a", UserID: "user-a", BookID: "book-2", Role: domain.RoleCreator}

	if err := s.CreateBookWithCreator(ctx, book, auth); err == nil {
		t.Fatal("expected error from duplicate authority id")
	}

	if _, err := s.GetBook(ctx, "book-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("book should not persist after rollback, got err=%v", err)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListBooksForUser_ExcludesLeft(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestBook(t, s, "book-1", "user-a")
	insertTestBook(t, s, "book-2", "user-b")

	// user-a joins book-2 as reader, then leaves.
	err := s.GrantAuthority(ctx, &domain.Authority{
		ID: "auth-x", UserID: "user-a", BookID: "book-2", Role: domain.RoleReader,
	})
	if err != nil {
		t.Fatalf("GrantAuthority: %v", err)
	}

	books, err := s.ListBooksForUser(ctx, "user-a")
	if err != nil {
		t.Fatalf("ListBooksForUser: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}

	if _, err := s.LeaveBook(ctx, "user-a", "book-2"); err != nil {
		t.Fatalf("LeaveBook: %v", err)
	}

	books, err = s.ListBooksForUser(ctx, "user-a")
	if err != nil {
		t.Fatalf("ListBooksForUser: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books after leaving, want 1", len(books))
	}
	if books[0].ID != "book-1" {
		t.Errorf("got book %s, want book-1", books[0].ID)
	}
}

func TestUpdateBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestBook(t, s, "book-1", "user-a")

	book, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	book.Title = "Renamed"
	book.UpdatedAt = time.Now().Add(time.Minute)

	if err := s.UpdateBook(ctx, book); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title: got %q", got.Title)
	}
}

func TestDestroyBook_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestBook(t, s, "book-1", "user-a")

	cat := &domain.Category{ID: "cat-1", Name: "Food", BookID: "book-1"}
	if err := s.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	now := time.Now()
	exp := &domain.Expense{
		ID: "exp-1", Name: "Dinner", CreatorID: "user-a", CategoryID: "cat-1",
		BookID: "book-1", SpentAt: now, CreatedAt: now, UpdatedAt: now,
	}
	prop := &domain.Proportion{ID: "prop-1", UserID: "user-a", Fee: 0, ExpenseID: "exp-1"}
	if err := s.CreateExpenseWithProportion(ctx, exp, prop); err != nil {
		t.Fatalf("CreateExpenseWithProportion: %v", err)
	}

	if err := s.DestroyBook(ctx, "book-1"); err != nil {
		t.Fatalf("DestroyBook: %v", err)
	}

	if _, err := s.GetBook(ctx, "book-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("book should be gone, got %v", err)
	}
	if _, err := s.GetCategory(ctx, "cat-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("category should cascade, got %v", err)
	}
	if _, err := s.GetExpense(ctx, "exp-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expense should cascade, got %v", err)
	}
	if _, err := s.GetProportion(ctx, "prop-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("proportion should cascade, got %v", err)
	}
	if _, err := s.GetAuthorityForUser(ctx, "user-a", "book-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("authority should cascade, got %v", err)
	}
}
