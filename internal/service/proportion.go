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

// ProportionService orchestrates fee share operations. Shares are scoped to
// an expense; any active member of the owning book may assign them.
type ProportionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewProportionService creates a new proportion service.
func NewProportionService(store store.Store, logger *slog.Logger) *ProportionService {
	return &ProportionService{
		store:  store,
		logger: logger,
	}
}

// requireExpense resolves the expense and checks the actor can see its book.
func (s *ProportionService) requireExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	exp, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, actorID, exp.BookID); err != nil {
		return nil, domainerrors.NotFound("expense not found")
	}
	return exp, nil
}

// CreateProportion assigns a user's fee share of an expense.
func (s *ProportionService) CreateProportion(ctx context.Context, actorID, expenseID, userID string, fee int64) (*domain.Proportion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fee < 0 {
		return nil, domainerrors.Validation("fee must be non-negative")
	}
	if userID == "" {
		return nil, domainerrors.Validation("user is required")
	}

	if _, err := s.requireExpense(ctx, actorID, expenseID); err != nil {
		return nil, err
	}

	propID, err := id.Generate("prop")
	if err != nil {
		return nil, fmt.Errorf("generate proportion ID: %w", err)
	}

	prop := &domain.Proportion{
		ID:        propID,
		UserID:    userID,
		Fee:       fee,
		ExpenseID: expenseID,
	}

	if err := s.store.CreateProportion(ctx, prop); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("user already has a share of this expense")
		}
		return nil, fmt.Errorf("create proportion: %w", err)
	}

	s.logger.Info("proportion created",
		"proportion_id", propID,
		"expense_id", expenseID,
		"user_id", userID,
		"fee", fee,
	)

	return prop, nil
}

// GetProportion retrieves a proportion on an expense the actor can see.
func (s *ProportionService) GetProportion(ctx context.Context, actorID, proportionID string) (*domain.Proportion, error) {
	prop, err := s.store.GetProportion(ctx, proportionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireExpense(ctx, actorID, prop.ExpenseID); err != nil {
		return nil, domainerrors.NotFound("proportion not found")
	}
	return prop, nil
}

// ListProportions returns the proportions of an expense the actor can see.
func (s *ProportionService) ListProportions(ctx context.Context, actorID, expenseID string) ([]*domain.Proportion, error) {
	if _, err := s.requireExpense(ctx, actorID, expenseID); err != nil {
		return nil, err
	}
	return s.store.ListProportionsForExpense(ctx, expenseID)
}

// UpdateProportion sets the fee of a proportion.
func (s *ProportionService) UpdateProportion(ctx context.Context, actorID, proportionID string, fee int64) (*domain.Proportion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fee < 0 {
		return nil, domainerrors.Validation("fee must be non-negative")
	}

	prop, err := s.GetProportion(ctx, actorID, proportionID)
	if err != nil {
		return nil, err
	}

	prop.Fee = fee
	if err := s.store.UpdateProportion(ctx, prop); err != nil {
		return nil, fmt.Errorf("update proportion: %w", err)
	}

	return prop, nil
}

// DeleteProportion removes a proportion.
func (s *ProportionService) DeleteProportion(ctx context.Context, actorID, proportionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.GetProportion(ctx, actorID, proportionID); err != nil {
		return err
	}

	if err := s.store.DeleteProportion(ctx, proportionID); err != nil {
		return fmt.Errorf("delete proportion: %w", err)
	}

	s.logger.Info("proportion deleted", "proportion_id", proportionID)
	return nil
}
