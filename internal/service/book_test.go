package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyapp/tally-server/internal/domain"
	domainerrors "github.com/tallyapp/tally-server/internal/errors"
	"github.com/tallyapp/tally-server/internal/store"
)

func TestCreateBook_GrantsCreatorAuthority(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "summer trip")
	require.NoError(t, err)
	assert.Equal(t, "Trip", book.Title)

	auth, err := env.store.GetAuthorityForUser(ctx, "user-a", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCreator, auth.Role)
}

func TestCreateBook_EmptyTitle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.books.CreateBook(context.Background(), "user-a", "", "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestGetBook_InvisibleToNonMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)

	// A non-member cannot tell the book exists.
	_, err = env.books.GetBook(ctx, "user-b", book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := env.books.GetBook(ctx, "user-a", book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
}

func TestDeleteBook_CreatorDestroys(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)

	action, err := env.books.DeleteBook(ctx, "user-a", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookDeleteDestroy, action)

	_, err = env.store.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// A non-creator's delete request resolves to leaving the book; the book and
// the other members' rows stay untouched.
func TestDeleteBook_MemberLeavesInstead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	_, err = env.authorities.Share(ctx, "user-a", book.ID, "user-b", domain.RoleWriter)
	require.NoError(t, err)

	action, err := env.books.DeleteBook(ctx, "user-b", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookDeleteLeave, action)

	// Book still exists for the creator.
	_, err = env.books.GetBook(ctx, "user-a", book.ID)
	require.NoError(t, err)

	// B's row is left, not gone.
	auth, err := env.store.GetAuthorityForUser(ctx, "user-b", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLeft, auth.Role)
}

func TestLeaveBook_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	_, err = env.authorities.Share(ctx, "user-a", book.ID, "user-b", domain.RoleReader)
	require.NoError(t, err)

	first, err := env.books.LeaveBook(ctx, "user-b", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLeft, first.Role)

	second, err := env.books.LeaveBook(ctx, "user-b", book.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.RoleLeft, second.Role)
}

func TestLeaveBook_NoMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)

	_, err = env.books.LeaveBook(ctx, "user-z", book.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListBooks_OnlyActiveMemberships(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trip, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	_, err = env.books.CreateBook(ctx, "user-b", "Household", "")
	require.NoError(t, err)
	_, err = env.authorities.Share(ctx, "user-a", trip.ID, "user-b", domain.RoleReader)
	require.NoError(t, err)

	books, err := env.books.ListBooks(ctx, "user-b")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	_, err = env.books.LeaveBook(ctx, "user-b", trip.ID)
	require.NoError(t, err)

	books, err = env.books.ListBooks(ctx, "user-b")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Household", books[0].Title)
}

// The sole creator cannot remove their own row through membership removal,
// but deleting the book itself succeeds and cascades everything.
func TestSoleCreator_DeleteBookPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)

	auth, err := env.store.GetAuthorityForUser(ctx, "user-a", book.ID)
	require.NoError(t, err)

	_, err = env.authorities.RemoveMember(ctx, "user-a", auth.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	cat, err := env.categories.CreateCategory(ctx, "user-a", book.ID, "Food")
	require.NoError(t, err)
	exp, err := env.expenses.CreateExpense(ctx, "user-a", book.ID, ExpenseInput{Name: "Dinner"})
	require.NoError(t, err)

	action, err := env.books.DeleteBook(ctx, "user-a", book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookDeleteDestroy, action)

	_, err = env.store.GetCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.store.GetExpense(ctx, exp.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
