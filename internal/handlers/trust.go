package handlers

import (
	"net/http"
	"strings"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/models"
	"samaj-backend/internal/services"
)

// TrustHandler handles trust events, registrations, suggestions and fund stats
type TrustHandler struct {
	trustService *services.TrustService
}

// NewTrustHandler creates a new trust handler
func NewTrustHandler(trustService *services.TrustService) *TrustHandler {
	return &TrustHandler{trustService: trustService}
}

// SuggestionRequest represents the request body for a suggestion
type SuggestionRequest struct {
	Message string `json:"message"`
}

// ListEvents handles GET /api/v1/trust/events
func (h *TrustHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.trustService.ListEvents(r.Context())
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/v1/trust/events
func (h *TrustHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.EventInput
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.trustService.CreateEvent(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// Register handles POST /api/v1/trust/registrations
func (h *TrustHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.RegistrationInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EventID != nil && strings.TrimSpace(*req.EventID) != "" {
		if err := checkID("event_id", strings.TrimSpace(*req.EventID)); err != nil {
			respondAppError(w, r, err)
			return
		}
	}

	reg, err := h.trustService.Register(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, reg)
}

// RegisterWedding handles POST /api/v1/trust/weddings
func (h *TrustHandler) RegisterWedding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.WeddingInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EventID != nil && strings.TrimSpace(*req.EventID) != "" {
		if err := checkID("event_id", strings.TrimSpace(*req.EventID)); err != nil {
			respondAppError(w, r, err)
			return
		}
	}

	reg, err := h.trustService.RegisterWedding(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, reg)
}

// ListWeddings handles GET /api/v1/trust/weddings
func (h *TrustHandler) ListWeddings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regs, err := h.trustService.ListWeddings(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, regs)
}

// Suggest handles POST /api/v1/trust/suggestions
func (h *TrustHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	suggestion, err := h.trustService.Suggest(ctx, middleware.GetUserID(ctx), req.Message)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, suggestion)
}

// FundStats handles GET /api/v1/trust/fund-stats
func (h *TrustHandler) FundStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.trustService.FundStats(r.Context())
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// UpdateFundStats handles PUT /api/v1/trust/fund-stats
func (h *TrustHandler) UpdateFundStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.FundStats
	if !decodeJSON(w, r, &req) {
		return
	}

	stats, err := h.trustService.UpdateFundStats(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
