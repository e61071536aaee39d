package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/middleware"
	"samaj-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients send no Origin
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub         *services.WSHub
	validator   middleware.TokenValidator
	chatService *services.ChatService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	validator middleware.TokenValidator,
	chatService *services.ChatService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		validator:   validator,
		chatService: chatService,
	}
}

// HandleWebSocket handles GET /ws?token=<jwt>
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.validator.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	ctx := r.Context()
	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to parse WebSocket message")
			h.sendError(userID, "", "Invalid message format")
			continue
		}

		if err := h.handleMessage(ctx, userID, msg); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to handle message")
			h.sendError(userID, msg.RoomID, apperrors.MessageOf(err))
		}
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(ctx context.Context, userID string, msg services.WSMessage) error {
	switch msg.Type {
	case services.WSTypeSubscribe, services.WSTypeSendMessage, services.WSTypeMarkRead:
		if err := checkID("room_id", msg.RoomID); err != nil {
			return err
		}
	}

	switch msg.Type {
	case services.WSTypeSubscribe:
		return h.handleSubscribe(ctx, userID, msg.RoomID)
	case services.WSTypeUnsubscribe:
		h.hub.Unsubscribe(msg.RoomID, userID)
		return nil
	case services.WSTypeSendMessage:
		_, err := h.chatService.SendMessage(ctx, msg.RoomID, userID, msg.Content)
		return err
	case services.WSTypeMarkRead:
		_, err := h.chatService.MarkRead(ctx, msg.RoomID, userID)
		return err
	case services.WSTypePing:
		return h.hub.SendToUser(userID, services.WSMessage{Type: services.WSTypePong})
	default:
		return apperrors.InvalidArg("unknown message type")
	}
}

// handleSubscribe joins the room's presence set and replays its full history
func (h *WebSocketHandler) handleSubscribe(ctx context.Context, userID, roomID string) error {
	history, err := h.chatService.History(ctx, roomID, userID)
	if err != nil {
		return err
	}

	if err := h.hub.SendToUser(userID, services.WSMessage{
		Type:   services.WSTypeRoomHistory,
		RoomID: roomID,
		Data:   history,
	}); err != nil {
		return err
	}

	h.hub.Subscribe(roomID, userID)
	log.Debug().Str("user_id", userID).Str("room_id", roomID).Msg("Subscribed to room")
	return nil
}

// sendError sends an error frame to a user
func (h *WebSocketHandler) sendError(userID, roomID, message string) {
	err := h.hub.SendToUser(userID, services.WSMessage{
		Type:    services.WSTypeError,
		RoomID:  roomID,
		Message: message,
	})
	if err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Failed to send error frame")
	}
}
