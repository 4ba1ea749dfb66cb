// Package api holds the helpers shared by all HTTP handlers: JSON encoding,
// request validation, and the mapping from domain errors to the wire error
// taxonomy.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/squareupapp/squareup-server/internal/auth"
	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/friend"
	"github.com/squareupapp/squareup-server/internal/group"
	"github.com/squareupapp/squareup-server/internal/money"
	"github.com/squareupapp/squareup-server/internal/user"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses the JSON body into v and runs struct validation.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes a machine-readable error. Clients surface Message and branch
// on Code instead of collapsing every failure into a generic toast.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, errorResponse{Code: code, Message: message})
}

// errorKind maps a domain sentinel to its wire representation.
type errorKind struct {
	sentinel error
	status   int
	code     string
}

var errorKinds = []errorKind{
	{group.ErrNotFound, http.StatusNotFound, "invalid_group"},
	{contribution.ErrGroupNotFound, http.StatusNotFound, "invalid_group"},
	{group.ErrNotAMember, http.StatusForbidden, "not_a_member"},
	{contribution.ErrNotMember, http.StatusBadRequest, "invalid_member"},
	{contribution.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{money.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{contribution.ErrNotFound, http.StatusNotFound, "not_found"},
	{group.ErrEmptyName, http.StatusBadRequest, "invalid_request"},
	{group.ErrTooFewMembers, http.StatusBadRequest, "too_few_members"},
	{group.ErrUnknownMember, http.StatusBadRequest, "invalid_member"},
	{group.ErrNotFriends, http.StatusBadRequest, "not_friends"},
	{user.ErrNotFound, http.StatusNotFound, "not_found"},
	{user.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{user.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{user.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{friend.ErrSelfRequest, http.StatusBadRequest, "self_request"},
	{friend.ErrAlreadyFriends, http.StatusConflict, "already_friends"},
	{friend.ErrDuplicateRequest, http.StatusConflict, "duplicate_request"},
	{friend.ErrNoRequest, http.StatusNotFound, "no_request"},
	{friend.ErrNotFriends, http.StatusNotFound, "not_friends"},
	{friend.ErrUnknownUser, http.StatusNotFound, "unknown_user"},
	{auth.ErrInvalidOTP, http.StatusBadRequest, "invalid_otp"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{auth.ErrMissingToken, http.StatusUnauthorized, "unauthorized"},
}

// DomainError translates a service error into the wire taxonomy. Anything
// unrecognized is a 500 with the details kept server-side.
func DomainError(w http.ResponseWriter, err error) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.sentinel) {
			Error(w, kind.status, kind.code, err.Error())
			return
		}
	}

	slog.Error("unhandled error", "error", err)
	Error(w, http.StatusInternalServerError, "internal", "internal error")
}
