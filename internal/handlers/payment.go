package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PaymentHandler handles donation payments and premium status
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// WebhookRequest is the gateway's server-to-server callback body
type WebhookRequest struct {
	Response string `json:"response"`
}

// Initiate handles POST /api/v1/payments/initiate
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.InitiateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.paymentService.Initiate(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Webhook handles POST /api/v1/payments/webhook
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.paymentService.HandleCallback(r.Context(), req.Response, r.Header.Get("X-VERIFY"))
	if err != nil {
		log.Warn().Err(err).Msg("Rejected payment callback")
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"transaction_id": payment.TransactionID,
		"status":         payment.Status,
	})
}

// History handles GET /api/v1/payments
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payments, err := h.paymentService.History(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

// Premium handles GET /api/v1/premium
func (h *PaymentHandler) Premium(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.paymentService.Premium(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}
