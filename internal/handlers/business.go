package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"
)

// BusinessHandler handles business directory HTTP requests
type BusinessHandler struct {
	businessService *services.BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessService *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// List handles GET /api/v1/businesses?q=&category=
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	businesses, err := h.businessService.List(r.Context(), q.Get("q"), q.Get("category"))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, businesses)
}

// Get handles GET /api/v1/businesses/{business_id}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID, ok := idParam(w, r, "business_id")
	if !ok {
		return
	}

	business, err := h.businessService.Get(r.Context(), businessID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, business)
}

// Create handles POST /api/v1/businesses
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.BusinessInput
	if !decodeJSON(w, r, &req) {
		return
	}

	business, err := h.businessService.Create(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, business)
}

// Update handles PUT /api/v1/businesses/{business_id}
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.BusinessInput
	if !decodeJSON(w, r, &req) {
		return
	}

	businessID, ok := idParam(w, r, "business_id")
	if !ok {
		return
	}

	business, err := h.businessService.Update(ctx, businessID, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, business)
}

// Delete handles DELETE /api/v1/businesses/{business_id}
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID, ok := idParam(w, r, "business_id")
	if !ok {
		return
	}

	if err := h.businessService.Delete(ctx, businessID, middleware.GetUserID(ctx)); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
