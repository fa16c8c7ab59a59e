package api

import (
	json "github.com/go-json-experiment/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/http/response"
)

// CreateBookRequest represents the request body for creating an account book.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateBookRequest represents the request body for updating an account book.
type UpdateBookRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// handleCreateBook creates a new account book owned by the caller.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req CreateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.CreateBook(ctx, userID, req.Title, req.Description)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleListBooks returns the books the caller holds an active membership on.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	books, err := s.bookService.ListBooks(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleGetBook returns a single book by ID if the caller can see it.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	book, err := s.bookService.GetBook(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleUpdateBook updates a book's title and description.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req UpdateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.UpdateBook(ctx, userID, id, req.Title, req.Description)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook resolves a delete request through the caller's role. A
// creator destroys the book; any other member leaves it. The response names
// the action that was taken.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	action, err := s.bookService.DeleteBook(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result := "left"
	if action == domain.BookDeleteDestroy {
		result = "destroyed"
	}
	response.Success(w, map[string]string{"action": result}, s.logger)
}

// handleLeaveBook demotes the caller's own membership to left.
func (s *Server) handleLeaveBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	auth, err := s.bookService.LeaveBook(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, auth, s.logger)
}
