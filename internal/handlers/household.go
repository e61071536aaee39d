package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"
)

// HouseholdHandler handles family registry HTTP requests
type HouseholdHandler struct {
	householdService *services.HouseholdService
}

// NewHouseholdHandler creates a new household handler
func NewHouseholdHandler(householdService *services.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService}
}

// List handles GET /api/v1/households?q=&limit=&offset=
func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	households, err := h.householdService.List(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, households)
}

// Create handles POST /api/v1/households
func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.HouseholdInput
	if !decodeJSON(w, r, &req) {
		return
	}

	household, err := h.householdService.Create(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, household)
}

// Get handles GET /api/v1/households/{household_id}; the response says whether the caller may edit
func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	householdID, ok := idParam(w, r, "household_id")
	if !ok {
		return
	}

	household, err := h.householdService.Get(ctx, householdID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	canEdit, err := h.householdService.CanEdit(ctx, household, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"household": household,
		"can_edit":  canEdit,
	})
}

// Delete handles DELETE /api/v1/households/{household_id}
func (h *HouseholdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	householdID, ok := idParam(w, r, "household_id")
	if !ok {
		return
	}

	if err := h.householdService.Delete(ctx, householdID, middleware.GetUserID(ctx)); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /api/v1/households/{household_id}/members
func (h *HouseholdHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.MemberInput
	if !decodeJSON(w, r, &req) {
		return
	}

	householdID, ok := idParam(w, r, "household_id")
	if !ok {
		return
	}

	member, err := h.householdService.AddMember(ctx, householdID, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/v1/members/{member_id}
func (h *HouseholdHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	memberID, ok := idParam(w, r, "member_id")
	if !ok {
		return
	}

	if err := h.householdService.RemoveMember(ctx, memberID, middleware.GetUserID(ctx)); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
