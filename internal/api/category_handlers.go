package api

import (
	json "github.com/go-json-experiment/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally-server/internal/http/response"
)

// CategoryRequest represents the request body for creating or renaming a
// category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// handleCreateCategory creates a category in a book.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "id")

	var req CategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	cat, err := s.categoryService.CreateCategory(ctx, userID, bookID, req.Name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, cat, s.logger)
}

// handleListCategories returns the categories of a book.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "id")

	cats, err := s.categoryService.ListCategories(ctx, userID, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cats, s.logger)
}

// handleGetCategory returns a single category.
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	cat, err := s.categoryService.GetCategory(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cat, s.logger)
}

// handleUpdateCategory renames a category.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req CategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	cat, err := s.categoryService.UpdateCategory(ctx, userID, id, req.Name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cat, s.logger)
}

// handleDeleteCategory removes a category, detaching it from any expenses.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.categoryService.DeleteCategory(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
