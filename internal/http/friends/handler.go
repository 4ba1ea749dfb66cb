// Package friends exposes the friendship graph endpoints: listing friends,
// managing requests in both directions, and removing friendships.
package friends

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/friend"
	"github.com/squareupapp/squareup-server/internal/http/api"
	"github.com/squareupapp/squareup-server/internal/http/middleware"
	"github.com/squareupapp/squareup-server/internal/user"
)

type Handler struct {
	friends *friend.Service
	users   *user.Service
}

func NewHandler(friends *friend.Service, users *user.Service) *Handler {
	return &Handler{friends: friends, users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/get-friends", h.getFriends)
	r.Get("/get-friend-requests", h.getFriendRequests)
	r.Post("/add-friend-request", h.addRequest)
	r.Post("/accept-friend-request", h.acceptRequest)
	r.Post("/remove-friend-request", h.rejectRequest)
	r.Post("/remove-outgoing-friend-request", h.withdrawRequest)
	r.Post("/remove-friend", h.removeFriend)
}

type friendsResponse struct {
	Friends []api.UserSummary `json:"friends"`
}

func (h *Handler) getFriends(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	ids, err := h.friends.Friends(r.Context(), userID)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	summaries, err := h.users.Summaries(r.Context(), ids)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, friendsResponse{Friends: api.ToUserSummaries(summaries)})
}

type friendRequestsResponse struct {
	Incoming []api.UserSummary `json:"incoming"`
	Outgoing []api.UserSummary `json:"outgoing"`
}

func (h *Handler) getFriendRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	incomingIDs, err := h.friends.IncomingRequests(r.Context(), userID)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	outgoingIDs, err := h.friends.OutgoingRequests(r.Context(), userID)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	incoming, err := h.users.Summaries(r.Context(), incomingIDs)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	outgoing, err := h.users.Summaries(r.Context(), outgoingIDs)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, friendRequestsResponse{
		Incoming: api.ToUserSummaries(incoming),
		Outgoing: api.ToUserSummaries(outgoing),
	})
}

type friendActionRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// action wraps the request/accept/reject/withdraw/remove handlers, which all
// share the same shape: decode the other party's id and call the service.
func (h *Handler) action(call func(r *http.Request, self, other uuid.UUID) error, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req friendActionRequest
		if err := api.Decode(r, &req); err != nil {
			api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		if err := call(r, middleware.UserID(r.Context()), req.UserID); err != nil {
			api.DomainError(w, err)
			return
		}

		api.JSON(w, http.StatusOK, statusResponse{Status: status})
	}
}

func (h *Handler) addRequest(w http.ResponseWriter, r *http.Request) {
	h.action(func(r *http.Request, self, other uuid.UUID) error {
		return h.friends.Request(r.Context(), self, other)
	}, "requested")(w, r)
}

func (h *Handler) acceptRequest(w http.ResponseWriter, r *http.Request) {
	h.action(func(r *http.Request, self, other uuid.UUID) error {
		return h.friends.Accept(r.Context(), self, other)
	}, "accepted")(w, r)
}

func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request) {
	h.action(func(r *http.Request, self, other uuid.UUID) error {
		return h.friends.RejectIncoming(r.Context(), self, other)
	}, "removed")(w, r)
}

func (h *Handler) withdrawRequest(w http.ResponseWriter, r *http.Request) {
	h.action(func(r *http.Request, self, other uuid.UUID) error {
		return h.friends.WithdrawOutgoing(r.Context(), self, other)
	}, "removed")(w, r)
}

func (h *Handler) removeFriend(w http.ResponseWriter, r *http.Request) {
	h.action(func(r *http.Request, self, other uuid.UUID) error {
		return h.friends.Remove(r.Context(), self, other)
	}, "removed")(w, r)
}
