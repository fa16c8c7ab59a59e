package api

import (
	json "github.com/go-json-experiment/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally-server/internal/http/response"
	"github.com/tallyapp/tally-server/internal/service"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

// CreateExpenseRequest represents the request body for recording an expense.
type CreateExpenseRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Note        string    `json:"note" validate:"max=2000"`
	CategoryID  string    `json:"category_id"`
	IsRepay     bool      `json:"is_repay"`
	Description string    `json:"description" validate:"max=2000"`
	SpentAt     time.Time `json:"spent_at,omitzero"`
}

// UpdateExpenseRequest represents the request body for updating an expense.
type UpdateExpenseRequest struct {
	Name        string    `json:"name" validate:"max=200"`
	Note        string    `json:"note" validate:"max=2000"`
	CategoryID  string    `json:"category_id"`
	IsRepay     bool      `json:"is_repay"`
	Description string    `json:"description" validate:"max=2000"`
	SpentAt     time.Time `json:"spent_at,omitzero"`
}

// handleCreateExpense records a spending event in a book. The caller becomes
// the paying user and receives a zero-fee proportion automatically.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "id")

	var req CreateExpenseRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	exp, err := s.expenseService.CreateExpense(ctx, userID, bookID, service.ExpenseInput{
		Name:        req.Name,
		Note:        req.Note,
		CategoryID:  req.CategoryID,
		IsRepay:     req.IsRepay,
		Description: req.Description,
		SpentAt:     req.SpentAt,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, exp, s.logger)
}

// handleListExpenses returns the expenses of a book, optionally filtered by
// the repay query parameter ("true" or "false").
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "id")

	var repay *bool
	switch r.URL.Query().Get("repay") {
	case "true":
		v := true
		repay = &v
	case "false":
		v := false
		repay = &v
	}

	exps, err := s.expenseService.ListExpenses(ctx, userID, bookID, repay)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, exps, s.logger)
}

// handleGetExpense returns a single expense.
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	exp, err := s.expenseService.GetExpense(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, exp, s.logger)
}

// handleUpdateExpense updates an expense's fields.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req UpdateExpenseRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	exp, err := s.expenseService.UpdateExpense(ctx, userID, id, service.ExpenseInput{
		Name:        req.Name,
		Note:        req.Note,
		CategoryID:  req.CategoryID,
		IsRepay:     req.IsRepay,
		Description: req.Description,
		SpentAt:     req.SpentAt,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, exp, s.logger)
}

// handleDeleteExpense removes an expense and its proportions.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.expenseService.DeleteExpense(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleUploadReceipt stores a receipt image for an expense. Expects a
// multipart form with a "receipt" file field.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", s.logger)
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		response.BadRequest(w, "Receipt file is required", s.logger)
		return
	}
	defer file.Close()

	exp, err := s.expenseService.AttachReceipt(ctx, userID, id, header.Filename, file)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, exp, s.logger)
}

// handleDownloadReceipt streams the stored receipt image of an expense.
func (s *Server) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	rc, err := s.expenseService.OpenReceipt(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("Failed to stream receipt", "error", err, "expense_id", id)
	}
}
