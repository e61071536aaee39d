package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChatRepository is the storage ChatService needs
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *models.ChatRoom) error
	GetRoom(ctx context.Context, id string) (*models.ChatRoom, error)
	FindRoomsContaining(ctx context.Context, roomType string, userIDs []string) ([]*models.ChatRoom, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]*models.ChatRoom, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, roomID string) ([]*models.Message, error)
	MarkRead(ctx context.Context, roomID, receiverID, senderID string) ([]*models.Message, error)
}

// ChatService handles private chat rooms, messages and read receipts
type ChatService struct {
	repo      ChatRepository
	broadcast RoomBroadcaster
	now       func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(repo ChatRepository, broadcast RoomBroadcaster) *ChatService {
	return &ChatService{
		repo:      repo,
		broadcast: broadcast,
		now:       time.Now,
	}
}

// EnsureRoom returns the oldest matrimony room holding both users, creating one
// if none exists. The lookup and insert are not atomic, so concurrent callers
// can each create a room.
func (s *ChatService) EnsureRoom(ctx context.Context, userA, userB string) (*models.ChatRoom, error) {
	rooms, err := s.repo.FindRoomsContaining(ctx, models.RoomTypeMatrimony, []string{userA, userB})
	if err != nil {
		return nil, fmt.Errorf("failed to look up chat room: %w", err)
	}
	if len(rooms) > 0 {
		if len(rooms) > 1 {
			log.Warn().
				Str("user_a", userA).
				Str("user_b", userB).
				Int("rooms", len(rooms)).
				Msg("Duplicate chat rooms for pair, using oldest")
		}
		return rooms[0], nil
	}

	room := &models.ChatRoom{
		ID:             uuid.New().String(),
		Type:           models.RoomTypeMatrimony,
		ParticipantIDs: []string{userA, userB},
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	log.Info().Str("room_id", room.ID).Str("user_a", userA).Str("user_b", userB).Msg("Chat room created")
	return room, nil
}

// GetRoomForUser loads a room and checks that userID participates in it
func (s *ChatService) GetRoomForUser(ctx context.Context, roomID, userID string) (*models.ChatRoom, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, apperrors.ErrNotRoomMember
	}
	return room, nil
}

// ListRooms returns the rooms the user participates in
func (s *ChatService) ListRooms(ctx context.Context, userID string) ([]*models.ChatRoom, error) {
	return s.repo.ListRoomsForUser(ctx, userID)
}

// History returns every message of a room, oldest first
func (s *ChatService) History(ctx context.Context, roomID, userID string) ([]*models.Message, error) {
	if _, err := s.GetRoomForUser(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, roomID)
}

// SendMessage stores an unread message for the other participant and publishes it to the room
func (s *ChatService) SendMessage(ctx context.Context, roomID, senderID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	room, err := s.GetRoomForUser(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		RoomID:     room.ID,
		SenderID:   senderID,
		ReceiverID: room.OtherParticipant(senderID),
		Content:    content,
		IsRead:     false,
		CreatedAt:  s.now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast.PublishToRoom(room.ID, WSMessage{Type: WSTypeMessageInsert, RoomID: room.ID, Data: msg})
	return msg, nil
}

// MarkRead marks the other participant's unread messages to userID as read and
// publishes one update per changed message.
func (s *ChatService) MarkRead(ctx context.Context, roomID, userID string) ([]*models.Message, error) {
	room, err := s.GetRoomForUser(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.MarkRead(ctx, room.ID, userID, room.OtherParticipant(userID))
	if err != nil {
		return nil, err
	}

	for _, msg := range updated {
		s.broadcast.PublishToRoom(room.ID, WSMessage{Type: WSTypeMessageUpdate, RoomID: room.ID, Data: msg})
	}
	return updated, nil
}

// Presence describes who is subscribed to a room
type Presence struct {
	RoomID        string   `json:"room_id"`
	OnlineUserIDs []string `json:"online_user_ids"`
	OtherOnline   bool     `json:"other_online"`
}

// Presence reports whether the other participant is currently in the room
func (s *ChatService) Presence(ctx context.Context, roomID, userID string) (*Presence, error) {
	room, err := s.GetRoomForUser(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	online := s.broadcast.OnlineInRoom(room.ID)
	other := room.OtherParticipant(userID)
	p := &Presence{RoomID: room.ID, OnlineUserIDs: online}
	for _, id := range online {
		if id == other {
			p.OtherOnline = true
			break
		}
	}
	return p, nil
}
