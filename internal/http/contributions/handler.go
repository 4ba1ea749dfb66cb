// Package contributions exposes the contribution endpoints: appending a
// payment to a group and the cursor-paginated activity feed.
package contributions

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/http/api"
	"github.com/squareupapp/squareup-server/internal/http/middleware"
	"github.com/squareupapp/squareup-server/internal/money"
	"github.com/squareupapp/squareup-server/internal/user"
)

type Handler struct {
	contributions *contribution.Service
	users         *user.Service
}

func NewHandler(contributions *contribution.Service, users *user.Service) *Handler {
	return &Handler{contributions: contributions, users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/add-contribution", h.add)
	r.Get("/get-contributions", h.feed)
}

type addContributionRequest struct {
	TransactionID   uuid.UUID               `json:"transaction_id" validate:"required"`
	Description     string                  `json:"description" validate:"required"`
	TotalAmount     money.Amount            `json:"total_amount"`
	ReceiverAmounts map[string]money.Amount `json:"receiver_amounts" validate:"required,min=1"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addContributionRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	receivers := make(map[uuid.UUID]money.Amount, len(req.ReceiverAmounts))
	for raw, amount := range req.ReceiverAmounts {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid_member", "invalid receiver id")
			return
		}

		receivers[id] = amount
	}

	c, err := h.contributions.Add(r.Context(), contribution.AddParams{
		GroupID:         req.TransactionID,
		SenderID:        middleware.UserID(r.Context()),
		Description:     req.Description,
		TotalAmount:     req.TotalAmount,
		ReceiverAmounts: receivers,
	})
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, api.ToContribution(c))
}

type feedResponse struct {
	Contributions []api.Contribution `json:"contributions"`
	UserDetails   []api.UserSummary  `json:"user_details"`
	HasMore       bool               `json:"has_more"`
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}

		limit = n
	}

	var afterID *uuid.UUID
	if s := r.URL.Query().Get("afterId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "invalid_request", "invalid afterId")
			return
		}

		afterID = &id
	}

	page, hasMore, err := h.contributions.Feed(r.Context(), userID, limit, afterID)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	details, err := h.participantDetails(r, page)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, feedResponse{
		Contributions: api.ToContributions(page),
		UserDetails:   details,
		HasMore:       hasMore,
	})
}

// participantDetails resolves everyone appearing in the page, senders and
// receivers alike.
func (h *Handler) participantDetails(r *http.Request, page []*contribution.Contribution) ([]api.UserSummary, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})

	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, c := range page {
		add(c.SenderID)
		for id := range c.ReceiverAmounts {
			add(id)
		}
	}

	summaries, err := h.users.Summaries(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	return api.ToUserSummaries(summaries), nil
}
