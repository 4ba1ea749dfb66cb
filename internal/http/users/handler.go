// Package users exposes user search.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/squareupapp/squareup-server/internal/http/api"
	"github.com/squareupapp/squareup-server/internal/user"
)

type Handler struct {
	users *user.Service
}

func NewHandler(users *user.Service) *Handler {
	return &Handler{users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/search-users", h.search)
}

type searchResponse struct {
	Users []api.UserSummary `json:"users"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "query required")
		return
	}

	summaries, err := h.users.Search(r.Context(), query)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, searchResponse{Users: api.ToUserSummaries(summaries)})
}
