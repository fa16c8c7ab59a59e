package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tallyapp/tally-server/internal/domain"
	domainerrors "github.com/tallyapp/tally-server/internal/errors"
	"github.com/tallyapp/tally-server/internal/id"
	"github.com/tallyapp/tally-server/internal/media"
	"github.com/tallyapp/tally-server/internal/store"
)

// ExpenseInput carries the caller-supplied fields of an expense.
type ExpenseInput struct {
	Name        string
	Note        string
	CategoryID  string
	IsRepay     bool
	Description string
	SpentAt     time.Time
}

// ExpenseService orchestrates expense operations. Creating an expense also
// creates a zero-fee proportion for the paying user in the same transaction,
// so every expense always carries at least one proportion row.
type ExpenseService struct {
	store    store.Store
	receipts media.ReceiptStore
	logger   *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store store.Store, receipts media.ReceiptStore, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{
		store:    store,
		receipts: receipts,
		logger:   logger,
	}
}

// CreateExpense records a spending event in a book the actor belongs to.
// The actor becomes the paying user. SpentAt defaults to now when unset.
func (s *ExpenseService) CreateExpense(ctx context.Context, actorID, bookID string, in ExpenseInput) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if in.Name == "" {
		return nil, domainerrors.Validation("expense name cannot be empty")
	}

	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}

	if in.CategoryID != "" {
		cat, err := s.store.GetCategory(ctx, in.CategoryID)
		if err != nil {
			return nil, domainerrors.Validation("category does not exist")
		}
		if cat.BookID != bookID {
			return nil, domainerrors.Validation("category belongs to another book")
		}
	}

	expID, err := id.Generate("exp")
	if err != nil {
		return nil, fmt.Errorf("generate expense ID: %w", err)
	}
	propID, err := id.Generate("prop")
	if err != nil {
		return nil, fmt.Errorf("generate proportion ID: %w", err)
	}

	now := time.Now()
	spentAt := in.SpentAt
	if spentAt.IsZero() {
		spentAt = now
	}

	exp := &domain.Expense{
		ID:          expID,
		Name:        in.Name,
		Note:        in.Note,
		CreatorID:   actorID,
		CategoryID:  in.CategoryID,
		BookID:      bookID,
		IsRepay:     in.IsRepay,
		Description: in.Description,
		SpentAt:     spentAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	prop := &domain.Proportion{
		ID:        propID,
		UserID:    actorID,
		Fee:       0,
		ExpenseID: expID,
	}

	if err := s.store.CreateExpenseWithProportion(ctx, exp, prop); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.logger.Info("expense created",
		"expense_id", expID,
		"book_id", bookID,
		"creator_id", actorID,
		"name", in.Name,
	)

	return exp, nil
}

// GetExpense retrieves an expense in a book the actor can see.
func (s *ExpenseService) GetExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	exp, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, actorID, exp.BookID); err != nil {
		return nil, domainerrors.NotFound("expense not found")
	}
	return exp, nil
}

// ListExpenses returns the expenses of a book the actor can see, optionally
// filtered by the repayment flag.
func (s *ExpenseService) ListExpenses(ctx context.Context, actorID, bookID string, repay *bool) ([]*domain.Expense, error) {
	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesForBook(ctx, bookID, repay)
}

// UpdateExpense updates the caller-supplied fields of an expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, actorID, expenseID string, in ExpenseInput) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exp, err := s.GetExpense(ctx, actorID, expenseID)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != "" {
		cat, err := s.store.GetCategory(ctx, in.CategoryID)
		if err != nil {
			return nil, domainerrors.Validation("category does not exist")
		}
		if cat.BookID != exp.BookID {
			return nil, domainerrors.Validation("category belongs to another book")
		}
	}

	if in.Name != "" {
		exp.Name = in.Name
	}
	exp.Note = in.Note
	exp.CategoryID = in.CategoryID
	exp.IsRepay = in.IsRepay
	exp.Description = in.Description
	if !in.SpentAt.IsZero() {
		exp.SpentAt = in.SpentAt
	}
	exp.UpdatedAt = time.Now()

	if err := s.store.UpdateExpense(ctx, exp); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	return exp, nil
}

// DeleteExpense removes an expense; its proportions go with it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actorID, expenseID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	exp, err := s.GetExpense(ctx, actorID, expenseID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.logger.Info("expense deleted", "expense_id", expenseID, "book_id", exp.BookID)
	return nil
}

// OpenReceipt streams the stored receipt image of an expense.
func (s *ExpenseService) OpenReceipt(ctx context.Context, actorID, expenseID string) (io.ReadCloser, error) {
	exp, err := s.GetExpense(ctx, actorID, expenseID)
	if err != nil {
		return nil, err
	}
	if exp.ReceiptPath == "" {
		return nil, domainerrors.NotFound("expense has no receipt")
	}
	return s.receipts.Open(ctx, exp.ReceiptPath)
}

// AttachReceipt stores a receipt image for an expense and records its path.
// The image is written only after the expense is known to exist and visible;
// the ledger row update is a plain field change outside any media concern.
func (s *ExpenseService) AttachReceipt(ctx context.Context, actorID, expenseID, filename string, r io.Reader) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exp, err := s.GetExpense(ctx, actorID, expenseID)
	if err != nil {
		return nil, err
	}

	path, err := s.receipts.Save(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	exp.ReceiptPath = path
	exp.UpdatedAt = time.Now()
	if err := s.store.UpdateExpense(ctx, exp); err != nil {
		return nil, fmt.Errorf("update expense receipt: %w", err)
	}

	s.logger.Info("receipt attached", "expense_id", expenseID, "path", path)
	return exp, nil
}
