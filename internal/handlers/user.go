package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles account and session HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents the identity check before a reset
type ForgotPasswordRequest struct {
	Mobile string `json:"mobile"`
	DOB    string `json:"dob"`
}

// ResetPasswordRequest represents the request body for a password reset
type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// PushTokenRequest represents the request body for a push token update
type PushTokenRequest struct {
	PushToken string `json:"push_token"`
}

// Register handles POST /api/v1/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.userService.Login(r.Context(), req.Mobile, req.Password)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.userService.ForgotPassword(r.Context(), req.Mobile, req.DOB)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"reset_token": token})
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.userService.ResetPassword(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		respondAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /api/v1/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	admin, err := h.userService.IsAdmin(ctx, userID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":     user,
		"is_admin": admin,
	})
}

// UpdateMe handles PATCH /api/v1/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdatePushToken handles PUT /api/v1/me/push-token
func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PushTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.userService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		respondAppError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Bool("cleared", req.PushToken == "").Msg("Push token updated")
	w.WriteHeader(http.StatusNoContent)
}
