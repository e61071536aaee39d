package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler hands out pre-signed upload URLs
type UploadHandler struct {
	storageService *services.StorageService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// CreateUpload handles POST /api/v1/uploads
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.storageService.GetPreSignedURL(ctx, userID, req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("bucket", req.Bucket).
		Str("key", resp.Key).
		Msg("Upload URL issued")

	respondJSON(w, http.StatusOK, resp)
}
