package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHubServer registers each connection under the "user" query parameter
func newHubServer(t *testing.T, hub *WSHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		userID := r.URL.Query().Get("user")
		hub.Register(userID, conn)
		defer hub.Unregister(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitOnline(t *testing.T, hub *WSHub, userIDs ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, id := range userIDs {
			if !hub.IsOnline(id) {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWSHub_PresenceAndPublish(t *testing.T) {
	hub := NewWSHub()
	srv := newHubServer(t, hub)

	alice := dialHub(t, srv, "alice")
	bob := dialHub(t, srv, "bob")
	waitOnline(t, hub, "alice", "bob")

	hub.Subscribe("room-1", "alice")
	frame := readFrame(t, alice)
	assert.Equal(t, WSTypePresenceSync, frame.Type)
	assert.Equal(t, []string{"alice"}, frame.OnlineUserIDs)

	hub.Subscribe("room-1", "bob")
	for _, conn := range []*websocket.Conn{alice, bob} {
		frame := readFrame(t, conn)
		assert.Equal(t, WSTypePresenceSync, frame.Type)
		assert.Equal(t, []string{"alice", "bob"}, frame.OnlineUserIDs)
	}

	hub.PublishToRoom("room-1", WSMessage{Type: WSTypeMessageInsert, RoomID: "room-1", Content: "hello"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		frame := readFrame(t, conn)
		assert.Equal(t, WSTypeMessageInsert, frame.Type)
		assert.Equal(t, "hello", frame.Content)
	}

	// bob disconnecting drops him from the room and resyncs alice
	bob.Close()
	frame = readFrame(t, alice)
	assert.Equal(t, WSTypePresenceSync, frame.Type)
	assert.Equal(t, []string{"alice"}, frame.OnlineUserIDs)
	assert.False(t, hub.IsOnline("bob"))
}

func TestWSHub_SendToUser(t *testing.T) {
	hub := NewWSHub()
	srv := newHubServer(t, hub)

	assert.Error(t, hub.SendToUser("carol", WSMessage{Type: WSTypeNotification}))

	carol := dialHub(t, srv, "carol")
	waitOnline(t, hub, "carol")

	require.NoError(t, hub.SendToUser("carol", WSMessage{Type: WSTypeNotification, Message: "hi"}))
	frame := readFrame(t, carol)
	assert.Equal(t, WSTypeNotification, frame.Type)
	assert.Equal(t, "hi", frame.Message)

	hub.Unsubscribe("nowhere", "carol")
	assert.Empty(t, hub.OnlineInRoom("nowhere"))
}

func TestWSHub_NewConnectionReplacesOld(t *testing.T) {
	hub := NewWSHub()
	srv := newHubServer(t, hub)

	first := dialHub(t, srv, "dave")
	waitOnline(t, hub, "dave")
	second := dialHub(t, srv, "dave")

	// the first connection is closed once the second registers
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err)

	require.NoError(t, hub.SendToUser("dave", WSMessage{Type: WSTypePong}))
	assert.Equal(t, WSTypePong, readFrame(t, second).Type)
}
