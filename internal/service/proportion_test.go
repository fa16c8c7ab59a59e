package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyapp/tally-server/internal/domain"
	domainerrors "github.com/tallyapp/tally-server/internal/errors"
)

func TestCreateProportion_SplitAcrossMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	_, err = env.authorities.Share(ctx, "user-a", book.ID, "user-b", domain.RoleWriter)
	require.NoError(t, err)
	exp, err := env.expenses.CreateExpense(ctx, "user-a", book.ID, ExpenseInput{Name: "Dinner"})
	require.NoError(t, err)

	prop, err := env.proportions.CreateProportion(ctx, "user-a", exp.ID, "user-b", 2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), prop.Fee)

	props, err := env.proportions.ListProportions(ctx, "user-b", exp.ID)
	require.NoError(t, err)
	assert.Len(t, props, 2)
}

func TestCreateProportion_DuplicateUserConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	exp, err := env.expenses.CreateExpense(ctx, "user-a", book.ID, ExpenseInput{Name: "Dinner"})
	require.NoError(t, err)

	// The payer already holds the automatic zero-fee share.
	_, err = env.proportions.CreateProportion(ctx, "user-a", exp.ID, "user-a", 1000)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestCreateProportion_NegativeFee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	exp, err := env.expenses.CreateExpense(ctx, "user-a", book.ID, ExpenseInput{Name: "Dinner"})
	require.NoError(t, err)

	_, err = env.proportions.CreateProportion(ctx, "user-a", exp.ID, "user-b", -1)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestProportions_InvisibleToOutsiders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	exp, err := env.expenses.CreateExpense(ctx, "user-a", book.ID, ExpenseInput{Name: "Dinner"})
	require.NoError(t, err)

	_, err = env.proportions.ListProportions(ctx, "user-z", exp.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.proportions.CreateProportion(ctx, "user-z", exp.ID, "user-z", 100)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpdateAndDeleteProportion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, "user-a", "Trip", "")
	require.NoError(t, err)
	exp, err := env.expenses.CreateExpense(ctx, "user-a", book.ID, ExpenseInput{Name: "Dinner"})
	require.NoError(t, err)
	prop, err := env.proportions.CreateProportion(ctx, "user-a", exp.ID, "user-b", 2500)
	require.NoError(t, err)

	updated, err := env.proportions.UpdateProportion(ctx, "user-a", prop.ID, 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), updated.Fee)

	_, err = env.proportions.UpdateProportion(ctx, "user-a", prop.ID, -5)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	require.NoError(t, env.proportions.DeleteProportion(ctx, "user-a", prop.ID))

	props, err := env.proportions.ListProportions(ctx, "user-a", exp.ID)
	require.NoError(t, err)
	assert.Len(t, props, 1)
}
