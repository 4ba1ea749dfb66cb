// Package groups exposes the group ("transaction") endpoints: creation, the
// per-user listing with computed balances, and the vote-to-delete flow.
package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/group"
	"github.com/squareupapp/squareup-server/internal/http/api"
	"github.com/squareupapp/squareup-server/internal/http/middleware"
	"github.com/squareupapp/squareup-server/internal/user"
)

type Handler struct {
	groups *group.Service
	users  *user.Service
}

func NewHandler(groups *group.Service, users *user.Service) *Handler {
	return &Handler{groups: groups, users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/create-transaction", h.create)
	r.Get("/get-user-transactions", h.listForUser)
	r.Post("/add-vote-to-delete-transaction", h.vote)
	r.Post("/remove-vote-to-delete-transaction", h.unvote)
}

type createTransactionRequest struct {
	Name    string      `json:"name" validate:"required"`
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	userID := middleware.UserID(r.Context())

	g, err := h.groups.Create(r.Context(), group.CreateParams{
		Name:      req.Name,
		CreatorID: userID,
		MemberIDs: req.UserIDs,
	})
	if err != nil {
		api.DomainError(w, err)
		return
	}

	view, err := h.groups.Get(r.Context(), g.ID, userID)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(view))
}

type transactionsResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	UserDetails  []api.UserSummary     `json:"user_details"`
}

func (h *Handler) listForUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	views, err := h.groups.ListForUser(r.Context(), userID)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	details, err := h.memberDetails(r, views)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, transactionsResponse{
		Transactions: toResponseList(views),
		UserDetails:  details,
	})
}

// memberDetails resolves the union of members across the listed groups so the
// client can render names without extra lookups.
func (h *Handler) memberDetails(r *http.Request, views []*group.View) ([]api.UserSummary, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})

	for _, v := range views {
		for _, id := range v.Group.MemberIDs {
			if _, ok := seen[id]; ok {
				continue
			}

			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	summaries, err := h.users.Summaries(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	return api.ToUserSummaries(summaries), nil
}

type voteRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
}

type voteResponse struct {
	Deleted       bool        `json:"deleted"`
	VotesToDelete []uuid.UUID `json:"votes_to_delete"`
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.groups.VoteToDelete(r.Context(), req.TransactionID, middleware.UserID(r.Context()))
	if err != nil {
		api.DomainError(w, err)
		return
	}

	resp := voteResponse{Deleted: result.Deleted}
	if !result.Deleted {
		resp.VotesToDelete = result.Group.VotesToDelete
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) unvote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	g, err := h.groups.UnvoteToDelete(r.Context(), req.TransactionID, middleware.UserID(r.Context()))
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, voteResponse{Deleted: false, VotesToDelete: g.VotesToDelete})
}
