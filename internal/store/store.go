// Package store defines the persistence boundary for the ledger.
//
// Implementations must enforce the referential rules of the data model at the
// storage layer: unique (user, book) authorities, unique (name, book)
// categories, unique (user, expense) proportions, cascade from book to
// categories/expenses/proportions, and nullify from category to expense.
// Compound mutations run inside a single transaction so concurrent requests
// never observe a book without a creator or an expense without a proportion.
package store

import (
	"context"

	"github.com/tallyapp/tally-server/internal/domain"
)

// Store is the persistence interface for account books, authorities,
// categories, expenses, and proportions.
type Store interface {
	// CreateBookWithCreator inserts a book and the creator authority for the
	// acting user in one transaction. Neither persists if either fails.
	CreateBookWithCreator(ctx context.Context, book *domain.AccountBook, auth *domain.Authority) error
	GetBook(ctx context.Context, id string) (*domain.AccountBook, error)
	// ListBooksForUser returns the books on which the user holds an active
	// (non-left) authority row.
	ListBooksForUser(ctx context.Context, userID string) ([]*domain.AccountBook, error)
	UpdateBook(ctx context.Context, book *domain.AccountBook) error
	// DestroyBook hard-deletes the book; categories, expenses, proportions,
	// and authority rows go with it.
	DestroyBook(ctx context.Context, id string) error

	// GrantAuthority creates a membership row, or reactivates a left row for
	// the same (user, book) pair with the granted role. An active existing
	// row is ErrAlreadyExists.
	GrantAuthority(ctx context.Context, auth *domain.Authority) error
	GetAuthority(ctx context.Context, id string) (*domain.Authority, error)
	// GetAuthorityForUser returns the row binding the user to the book,
	// left rows included. ErrNotFound when no row exists at all.
	GetAuthorityForUser(ctx context.Context, userID, bookID string) (*domain.Authority, error)
	ListAuthoritiesForBook(ctx context.Context, bookID string) ([]*domain.Authority, error)
	// UpdateAuthorityRole sets the role of a row. ErrForbidden when the change
	// would leave the book without a creator row.
	UpdateAuthorityRole(ctx context.Context, id string, role domain.Role) error
	// LeaveBook demotes the user's own row on the book to left. Idempotent:
	// an already-left row is re-asserted. ErrNotFound when no row exists.
	LeaveBook(ctx context.Context, userID, bookID string) (*domain.Authority, error)
	// DemoteMember demotes another member's row to left after re-checking the
	// rank and last-creator rules inside the transaction, so the decision
	// cannot race a concurrent role change. ErrForbidden when the rules deny.
	DemoteMember(ctx context.Context, actorUserID, authorityID string) (*domain.Authority, error)

	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategoriesForBook(ctx context.Context, bookID string) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	// DeleteCategory removes the category; expenses referencing it fall back
	// to no category.
	DeleteCategory(ctx context.Context, id string) error

	// CreateExpenseWithProportion inserts an expense and its zero-fee
	// proportion for the paying user in one transaction.
	CreateExpenseWithProportion(ctx context.Context, e *domain.Expense, p *domain.Proportion) error
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	// ListExpensesForBook lists the book's expenses, optionally filtered by
	// the repayment flag.
	ListExpensesForBook(ctx context.Context, bookID string, repay *bool) ([]*domain.Expense, error)
	UpdateExpense(ctx context.Context, e *domain.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	CreateProportion(ctx context.Context, p *domain.Proportion) error
	GetProportion(ctx context.Context, id string) (*domain.Proportion, error)
	ListProportionsForExpense(ctx context.Context, expenseID string) ([]*domain.Proportion, error)
	UpdateProportion(ctx context.Context, p *domain.Proportion) error
	DeleteProportion(ctx context.Context, id string) error
}
