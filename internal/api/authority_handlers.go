package api

import (
	json "github.com/go-json-experiment/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/http/response"
)

// ShareBookRequest represents the request body for sharing a book.
type ShareBookRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=creator writer reader"`
}

// UpdateRoleRequest represents the request body for changing a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=creator writer reader"`
}

// handleShareBook grants another user a membership on the book.
func (s *Server) handleShareBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "id")

	var req ShareBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	role, _ := domain.ParseRole(req.Role)
	auth, err := s.authorityService.Share(ctx, userID, bookID, req.UserID, role)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, auth, s.logger)
}

// handleListAuthorities returns the membership rows of a book, left rows
// included.
func (s *Server) handleListAuthorities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	bookID := chi.URLParam(r, "id")

	auths, err := s.authorityService.ListAuthorities(ctx, userID, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, auths, s.logger)
}

// handleGetAuthority returns a single membership row.
func (s *Server) handleGetAuthority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	auth, err := s.authorityService.GetAuthority(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, auth, s.logger)
}

// handleUpdateAuthorityRole changes a member's role. Creator only.
func (s *Server) handleUpdateAuthorityRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req UpdateRoleRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	role, _ := domain.ParseRole(req.Role)
	auth, err := s.authorityService.UpdateRole(ctx, userID, id, role)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, auth, s.logger)
}

// handleRemoveMember demotes another member's row to left.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	auth, err := s.authorityService.RemoveMember(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, auth, s.logger)
}
