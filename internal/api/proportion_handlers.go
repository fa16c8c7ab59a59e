package api

import (
	json "github.com/go-json-experiment/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally-server/internal/http/response"
)

// CreateProportionRequest represents the request body for assigning a fee
// share of an expense.
type CreateProportionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Fee    int64  `json:"fee" validate:"gte=0"`
}

// UpdateProportionRequest represents the request body for changing a fee.
type UpdateProportionRequest struct {
	Fee int64 `json:"fee" validate:"gte=0"`
}

// handleCreateProportion assigns a user's fee share of an expense.
func (s *Server) handleCreateProportion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	expenseID := chi.URLParam(r, "id")

	var req CreateProportionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	prop, err := s.proportionService.CreateProportion(ctx, userID, expenseID, req.UserID, req.Fee)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, prop, s.logger)
}

// handleListProportions returns the proportions of an expense.
func (s *Server) handleListProportions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	expenseID := chi.URLParam(r, "id")

	props, err := s.proportionService.ListProportions(ctx, userID, expenseID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, props, s.logger)
}

// handleGetProportion returns a single proportion.
func (s *Server) handleGetProportion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	prop, err := s.proportionService.GetProportion(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, prop, s.logger)
}

// handleUpdateProportion sets the fee of a proportion.
func (s *Server) handleUpdateProportion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req UpdateProportionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	prop, err := s.proportionService.UpdateProportion(ctx, userID, id, req.Fee)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, prop, s.logger)
}

// handleDeleteProportion removes a proportion.
func (s *Server) handleDeleteProportion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.proportionService.DeleteProportion(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
