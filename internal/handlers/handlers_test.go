package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"
	"samaj-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{apperrors.ErrEmptyMessage, http.StatusBadRequest, "message content is required"},
		{apperrors.ErrRoomNotFound, http.StatusNotFound, "chat room not found"},
		{apperrors.ErrMobileTaken, http.StatusConflict, "mobile number is already registered"},
		{apperrors.ErrRequestNotPending, http.StatusConflict, "request is no longer pending"},
		{apperrors.ErrNotRoomMember, http.StatusForbidden, "user is not a member of this room"},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid mobile number or password"},
		{fmt.Errorf("failed to get user: %w", errors.New("conn reset")), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondAppError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.body, body.Error)
		})
	}
}

type tokenTable map[string]string

func (t tokenTable) ValidateJWT(token string) (string, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return "", apperrors.ErrInvalidToken
}

// memChat is a minimal in-memory chat store
type memChat struct {
	mu       sync.Mutex
	rooms    []*models.ChatRoom
	messages []*models.Message
}

func (m *memChat) CreateRoom(_ context.Context, room *models.ChatRoom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms = append(m.rooms, room)
	return nil
}

func (m *memChat) GetRoom(_ context.Context, id string) (*models.ChatRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrRoomNotFound
}

func (m *memChat) FindRoomsContaining(_ context.Context, _ string, ids []string) ([]*models.ChatRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ChatRoom
	for _, r := range m.rooms {
		if r.HasParticipant(ids[0]) && r.HasParticipant(ids[1]) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memChat) ListRoomsForUser(_ context.Context, userID string) ([]*models.ChatRoom, error) {
	return nil, nil
}

func (m *memChat) CreateMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memChat) ListMessages(_ context.Context, roomID string) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Message
	for _, msg := range m.messages {
		if msg.RoomID == roomID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memChat) MarkRead(_ context.Context, roomID, receiverID, senderID string) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Message
	for _, msg := range m.messages {
		if msg.RoomID == roomID && msg.ReceiverID == receiverID && msg.SenderID == senderID && !msg.IsRead {
			msg.IsRead = true
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

type wsFrame struct {
	Type          string          `json:"type"`
	RoomID        string          `json:"room_id"`
	Message       string          `json:"message"`
	OnlineUserIDs []string        `json:"online_user_ids"`
	Data          json.RawMessage `json:"data"`
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next reads frames until one of the wanted type arrives
func next(t *testing.T, conn *websocket.Conn, frameType string) wsFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == frameType {
			return f
		}
	}
}

func TestWebSocket_ChatReadReceipts(t *testing.T) {
	hub := services.NewWSHub()
	chat := services.NewChatService(&memChat{}, hub)
	room, err := chat.EnsureRoom(context.Background(), "alice", "bob")
	require.NoError(t, err)

	h := NewWebSocketHandler(hub, tokenTable{"ta": "alice", "tb": "bob", "tm": "mallory"}, chat)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWebSocket)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	alice := dial(t, srv, "ta")
	require.NoError(t, alice.WriteJSON(map[string]string{"type": "subscribe", "room_id": room.ID}))
	history := next(t, alice, services.WSTypeRoomHistory)
	assert.Contains(t, []string{"", "null", "[]"}, string(history.Data))
	presence := next(t, alice, services.WSTypePresenceSync)
	assert.Equal(t, []string{"alice"}, presence.OnlineUserIDs)

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "send_message", "room_id": room.ID, "content": "kem cho"}))
	inserted := next(t, alice, services.WSTypeMessageInsert)
	var sent models.Message
	require.NoError(t, json.Unmarshal(inserted.Data, &sent))
	assert.Equal(t, "bob", sent.ReceiverID)
	assert.False(t, sent.IsRead)

	bob := dial(t, srv, "tb")
	require.NoError(t, bob.WriteJSON(map[string]string{"type": "subscribe", "room_id": room.ID}))
	history = next(t, bob, services.WSTypeRoomHistory)
	var backlog []models.Message
	require.NoError(t, json.Unmarshal(history.Data, &backlog))
	require.Len(t, backlog, 1)
	presence = next(t, alice, services.WSTypePresenceSync)
	assert.Equal(t, []string{"alice", "bob"}, presence.OnlineUserIDs)

	require.NoError(t, bob.WriteJSON(map[string]string{"type": "mark_read", "room_id": room.ID}))
	updated := next(t, alice, services.WSTypeMessageUpdate)
	var read models.Message
	require.NoError(t, json.Unmarshal(updated.Data, &read))
	assert.Equal(t, sent.ID, read.ID)
	assert.True(t, read.IsRead)

	mallory := dial(t, srv, "tm")
	require.NoError(t, mallory.WriteJSON(map[string]string{"type": "subscribe", "room_id": room.ID}))
	errFrame := next(t, mallory, services.WSTypeError)
	assert.Equal(t, "user is not a member of this room", errFrame.Message)

	require.NoError(t, mallory.WriteJSON(map[string]string{"type": "send_message", "room_id": "lobby", "content": "hi"}))
	errFrame = next(t, mallory, services.WSTypeError)
	assert.Equal(t, "room_id is not a valid id", errFrame.Message)

	require.NoError(t, mallory.WriteJSON(map[string]string{"type": "ping"}))
	next(t, mallory, services.WSTypePong)
}

func TestMalformedIDsAreBadRequests(t *testing.T) {
	business := NewBusinessHandler(services.NewBusinessService(nil, nil))
	matrimony := NewMatrimonyHandler(services.NewMatrimonyService(nil, nil, nil, nil))
	chat := NewChatHandler(services.NewChatService(nil, nil))

	r := chi.NewRouter()
	r.Get("/businesses/{business_id}", business.Get)
	r.Post("/matrimony/requests", matrimony.SendRequest)
	r.Post("/matrimony/requests/{request_id}/accept", matrimony.AcceptRequest)
	r.Get("/chat/rooms/{room_id}/messages", chat.ListMessages)

	tests := []struct {
		method string
		path   string
		body   string
		want   string
	}{
		{http.MethodGet, "/businesses/not-a-uuid", "", "business_id is not a valid id"},
		{http.MethodPost, "/matrimony/requests", `{"receiver_id":"bob"}`, "receiver_id is not a valid id"},
		{http.MethodPost, "/matrimony/requests/42/accept", "", "request_id is not a valid id"},
		{http.MethodGet, "/chat/rooms/lobby/messages", "", "room_id is not a valid id"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Error)
			assert.Equal(t, string(apperrors.CodeInvalidArgument), body.Code)
		})
	}
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	h := NewWebSocketHandler(services.NewWSHub(), tokenTable{}, nil)

	rec := httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws?token=bogus", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
