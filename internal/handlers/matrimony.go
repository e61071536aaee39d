package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"
)

// MatrimonyHandler handles matrimony profile and request HTTP requests
type MatrimonyHandler struct {
	matrimonyService *services.MatrimonyService
}

// NewMatrimonyHandler creates a new matrimony handler
func NewMatrimonyHandler(matrimonyService *services.MatrimonyService) *MatrimonyHandler {
	return &MatrimonyHandler{matrimonyService: matrimonyService}
}

// SendRequestBody represents the request body for a new matrimony request
type SendRequestBody struct {
	ReceiverID string `json:"receiver_id"`
}

// ListProfiles handles GET /api/v1/matrimony/profiles
func (h *MatrimonyHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, offset := pageParams(r)
	profiles, err := h.matrimonyService.ListProfiles(ctx, middleware.GetUserID(ctx), limit, offset)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}

// GetProfile handles GET /api/v1/matrimony/profiles/{user_id}
func (h *MatrimonyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	otherID, ok := idParam(w, r, "user_id")
	if !ok {
		return
	}

	profile, err := h.matrimonyService.GetProfile(r.Context(), otherID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GetMyProfile handles GET /api/v1/matrimony/profile
func (h *MatrimonyHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.matrimonyService.GetProfile(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// SaveMyProfile handles PUT /api/v1/matrimony/profile
func (h *MatrimonyHandler) SaveMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.ProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.matrimonyService.SaveProfile(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// DeleteMyProfile handles DELETE /api/v1/matrimony/profile
func (h *MatrimonyHandler) DeleteMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.matrimonyService.DeleteProfile(ctx, middleware.GetUserID(ctx)); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendRequest handles POST /api/v1/matrimony/requests
func (h *MatrimonyHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ReceiverID == "" {
		respondError(w, "receiver_id is required", http.StatusBadRequest)
		return
	}
	if err := checkID("receiver_id", req.ReceiverID); err != nil {
		respondAppError(w, r, err)
		return
	}

	request, err := h.matrimonyService.SendRequest(ctx, userID, req.ReceiverID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

// ListReceived handles GET /api/v1/matrimony/requests
func (h *MatrimonyHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requests, err := h.matrimonyService.ListReceived(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

// AcceptRequest handles POST /api/v1/matrimony/requests/{request_id}/accept
func (h *MatrimonyHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := idParam(w, r, "request_id")
	if !ok {
		return
	}

	result, err := h.matrimonyService.AcceptRequest(ctx, requestID, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// RejectRequest handles POST /api/v1/matrimony/requests/{request_id}/reject
func (h *MatrimonyHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := idParam(w, r, "request_id")
	if !ok {
		return
	}

	request, err := h.matrimonyService.RejectRequest(ctx, requestID, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, request)
}

// ListConnections handles GET /api/v1/matrimony/connections
func (h *MatrimonyHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	connections, err := h.matrimonyService.ListConnections(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, connections)
}

// StartChat handles POST /api/v1/matrimony/connections/{user_id}/chat
func (h *MatrimonyHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	otherID, ok := idParam(w, r, "user_id")
	if !ok {
		return
	}

	room, err := h.matrimonyService.StartChat(ctx, middleware.GetUserID(ctx), otherID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}
