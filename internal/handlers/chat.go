package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"
)

// ChatHandler exposes the chat rooms over REST; writes publish the same
// events as the WebSocket frames
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageBody represents the request body for a chat message
type SendMessageBody struct {
	Content string `json:"content"`
}

// ListRooms handles GET /api/v1/chat/rooms
func (h *ChatHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rooms, err := h.chatService.ListRooms(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

// ListMessages handles GET /api/v1/chat/rooms/{room_id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID, ok := idParam(w, r, "room_id")
	if !ok {
		return
	}

	messages, err := h.chatService.History(ctx, roomID, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/v1/chat/rooms/{room_id}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SendMessageBody
	if !decodeJSON(w, r, &req) {
		return
	}

	roomID, ok := idParam(w, r, "room_id")
	if !ok {
		return
	}

	msg, err := h.chatService.SendMessage(ctx, roomID, middleware.GetUserID(ctx), req.Content)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// MarkRead handles POST /api/v1/chat/rooms/{room_id}/read
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID, ok := idParam(w, r, "room_id")
	if !ok {
		return
	}

	updated, err := h.chatService.MarkRead(ctx, roomID, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": len(updated)})
}

// Presence handles GET /api/v1/chat/rooms/{room_id}/presence
func (h *ChatHandler) Presence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID, ok := idParam(w, r, "room_id")
	if !ok {
		return
	}

	presence, err := h.chatService.Presence(ctx, roomID, middleware.GetUserID(ctx))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, presence)
}
