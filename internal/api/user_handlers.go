package api

import (
	"net/http"

	"github.com/tallyapp/tally-server/internal/http/response"
)

// handleGetCurrentUser returns the identity attached to the request.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := getUser(r.Context())
	if user == nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	response.Success(w, user, s.logger)
}
