package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"samaj-backend/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket frame types
const (
	WSTypeSubscribe       = "subscribe"
	WSTypeUnsubscribe     = "unsubscribe"
	WSTypeSendMessage     = "send_message"
	WSTypeMarkRead        = "mark_read"
	WSTypePing            = "ping"
	WSTypePong            = "pong"
	WSTypeRoomHistory     = "room_history"
	WSTypeMessageInsert   = "message_insert"
	WSTypeMessageUpdate   = "message_update"
	WSTypePresenceSync    = "presence_sync"
	WSTypeNotification    = "notification"
	WSTypeRequestAccepted = "request_accepted"
	WSTypeError           = "error"
)

const writeWait = 10 * time.Second

// WSMessage represents a WebSocket frame in either direction
type WSMessage struct {
	Type          string      `json:"type"`
	RoomID        string      `json:"room_id,omitempty"`
	Content       string      `json:"content,omitempty"`
	Message       string      `json:"message,omitempty"`
	OnlineUserIDs []string    `json:"online_user_ids,omitempty"`
	Data          interface{} `json:"data,omitempty"`
}

// UserPublisher sends a frame to one user if connected
type UserPublisher interface {
	SendToUser(userID string, message WSMessage) error
}

// RoomBroadcaster fans frames out to a room's subscribers and reports its presence set
type RoomBroadcaster interface {
	PublishToRoom(roomID string, message WSMessage)
	OnlineInRoom(roomID string) []string
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages WebSocket connections and per-room presence
type WSHub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
	rooms   map[string]map[string]struct{}
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		clients: make(map[string]*wsClient),
		rooms:   make(map[string]map[string]struct{}),
	}
}

// Register registers a WebSocket connection for a user, replacing any previous one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	existing, exists := h.clients[userID]
	h.clients[userID] = &wsClient{conn: conn}
	h.mu.Unlock()

	if exists {
		existing.conn.Close()
	} else {
		metrics.WSConnections.Inc()
	}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the user's connection if it is still conn and drops the
// user from every room presence set.
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	client, exists := h.clients[userID]
	if !exists || client.conn != conn {
		h.mu.Unlock()
		return
	}
	delete(h.clients, userID)

	var left []string
	for roomID, members := range h.rooms {
		if _, ok := members[userID]; ok {
			delete(members, userID)
			left = append(left, roomID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	h.mu.Unlock()

	conn.Close()
	metrics.WSConnections.Dec()
	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")

	for _, roomID := range left {
		h.broadcastPresence(roomID)
	}
}

// Subscribe adds the user to a room's presence set and syncs presence to the room
func (h *WSHub) Subscribe(roomID, userID string) {
	h.mu.Lock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomID] = members
	}
	members[userID] = struct{}{}
	h.mu.Unlock()

	h.broadcastPresence(roomID)
}

// Unsubscribe removes the user from a room's presence set
func (h *WSHub) Unsubscribe(roomID, userID string) {
	h.mu.Lock()
	members, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
	h.mu.Unlock()

	h.broadcastPresence(roomID)
}

// OnlineInRoom returns the sorted ids currently subscribed to a room
func (h *WSHub) OnlineInRoom(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PublishToRoom sends a frame to every subscriber of a room
func (h *WSHub) PublishToRoom(roomID string, message WSMessage) {
	for _, userID := range h.OnlineInRoom(roomID) {
		if err := h.SendToUser(userID, message); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("room_id", roomID).Msg("Failed to publish to room")
		}
	}
}

func (h *WSHub) broadcastPresence(roomID string) {
	online := h.OnlineInRoom(roomID)
	h.PublishToRoom(roomID, WSMessage{
		Type:          WSTypePresenceSync,
		RoomID:        roomID,
		OnlineUserIDs: online,
	})
}

// SendToUser sends a frame to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	client, exists := h.clients[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user has an open connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.clients[userID]
	return exists
}

// Close closes every open connection
func (h *WSHub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*wsClient)
	h.rooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.writeMu.Lock()
		client.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		client.writeMu.Unlock()
		client.conn.Close()
		metrics.WSConnections.Dec()
	}
}
