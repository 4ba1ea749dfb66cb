// Package auth exposes the account endpoints: signup, login, token
// verification, availability checks, and the OTP password-reset flow.
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/auth"
	"github.com/squareupapp/squareup-server/internal/http/api"
	"github.com/squareupapp/squareup-server/internal/http/middleware"
	"github.com/squareupapp/squareup-server/internal/user"
)

type Handler struct {
	users *user.Service
	jwt   *auth.JWTManager
	otp   *auth.OTPService
}

func NewHandler(users *user.Service, jwt *auth.JWTManager, otp *auth.OTPService) *Handler {
	return &Handler{users: users, jwt: jwt, otp: otp}
}

// Routes mounts the endpoints that need no bearer token.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/check-email", h.checkEmail)
	r.Post("/check-username", h.checkUsername)
	r.Post("/send-otp", h.sendOTP)
	r.Post("/reset-password", h.resetPassword)
}

// AuthedRoutes mounts the endpoints that require a valid token.
func (h *Handler) AuthedRoutes(r chi.Router) {
	r.Post("/verify-token", h.verifyToken)
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=30"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  api.UserSummary `json:"user"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		api.DomainError(w, err)
		return
	}

	token, err := h.jwt.Generate(u)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User:  api.ToUserSummary(u.Summary()),
	})
}

type loginRequest struct {
	// Identifier is either the email address or the username.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		api.Error(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(u)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  api.ToUserSummary(u.Summary()),
	})
}

type verifyTokenResponse struct {
	Valid    bool      `json:"valid"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

func (h *Handler) verifyToken(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, verifyTokenResponse{
		Valid:    true,
		UserID:   middleware.UserID(r.Context()),
		Username: middleware.Username(r.Context()),
	})
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (h *Handler) checkEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	available, err := h.users.EmailAvailable(r.Context(), req.Email)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, availabilityResponse{Available: available})
}

type usernameRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *Handler) checkUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	available, err := h.users.UsernameAvailable(r.Context(), req.Username)
	if err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, availabilityResponse{Available: available})
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.otp.Send(r.Context(), req.Email); err != nil {
		api.DomainError(w, err)
		return
	}

	// Same response whether or not the email is registered.
	api.JSON(w, http.StatusOK, messageResponse{Message: "if the address is registered, a code is on its way"})
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.otp.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		api.DomainError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}
