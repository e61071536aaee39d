package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"
)

// NoticeHandler handles notice board HTTP requests
type NoticeHandler struct {
	noticeService *services.NoticeService
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(noticeService *services.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

// List handles GET /api/v1/notices
func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.noticeService.List(r.Context())
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notices)
}

// Post handles POST /api/v1/notices
func (h *NoticeHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.NoticeInput
	if !decodeJSON(w, r, &req) {
		return
	}

	notice, err := h.noticeService.Post(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, notice)
}

// MarkRead handles POST /api/v1/notices/read
func (h *NoticeHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.noticeService.MarkRead(ctx, middleware.GetUserID(ctx)); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount handles GET /api/v1/notices/unread
func (h *NoticeHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.noticeService.UnreadCount(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}
