package repository

import (
	"context"
	"errors"
	"fmt"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chat rooms and messages
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateRoom creates a new chat room
func (r *ChatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	query := `
		INSERT INTO chat_rooms (id, type, participant_ids, created_at)
		VALUES ($1, $2, $3::uuid[], $4)
	`
	_, err := r.db.Exec(ctx, query, room.ID, room.Type, room.ParticipantIDs, room.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat room: %w", err)
	}
	return nil
}

// GetRoom retrieves a chat room by ID
func (r *ChatRepository) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	query := `
		SELECT id, type, participant_ids::text[], created_at
		FROM chat_rooms
		WHERE id = $1
	`
	var room models.ChatRoom
	err := r.db.QueryRow(ctx, query, id).Scan(&room.ID, &room.Type, &room.ParticipantIDs, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}
	return &room, nil
}

// FindRoomsContaining returns rooms of a type whose participants include all of
// userIDs, oldest first.
func (r *ChatRepository) FindRoomsContaining(ctx context.Context, roomType string, userIDs []string) ([]*models.ChatRoom, error) {
	query := `
		SELECT id, type, participant_ids::text[], created_at
		FROM chat_rooms
		WHERE type = $1 AND participant_ids @> $2::uuid[]
		ORDER BY created_at ASC
	`
	return r.listRooms(ctx, query, roomType, userIDs)
}

// ListRoomsForUser returns every room the user participates in, newest first
func (r *ChatRepository) ListRoomsForUser(ctx context.Context, userID string) ([]*models.ChatRoom, error) {
	query := `
		SELECT id, type, participant_ids::text[], created_at
		FROM chat_rooms
		WHERE participant_ids @> ARRAY[$1::uuid]
		ORDER BY created_at DESC
	`
	return r.listRooms(ctx, query, userID)
}

func (r *ChatRepository) listRooms(ctx context.Context, query string, args ...any) ([]*models.ChatRoom, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.ChatRoom
	for rows.Next() {
		var room models.ChatRoom
		if err := rows.Scan(&room.ID, &room.Type, &room.ParticipantIDs, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat room: %w", err)
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rooms: %w", err)
	}
	return rooms, nil
}

// CreateMessage inserts a message
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, room_id, sender_id, receiver_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, msg.ID, msg.RoomID, msg.SenderID, msg.ReceiverID, msg.Content, msg.IsRead, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns the full history of a room, oldest first
func (r *ChatRepository) ListMessages(ctx context.Context, roomID string) ([]*models.Message, error) {
	query := `
		SELECT id, room_id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE room_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return collectMessages(rows)
}

// MarkRead flags unread messages from senderID to receiverID in a room as read
// and returns the rows it changed.
func (r *ChatRepository) MarkRead(ctx context.Context, roomID, receiverID, senderID string) ([]*models.Message, error) {
	query := `
		UPDATE messages SET is_read = true
		WHERE room_id = $1 AND receiver_id = $2 AND sender_id = $3 AND is_read = false
		RETURNING id, room_id, sender_id, receiver_id, content, is_read, created_at
	`
	rows, err := r.db.Query(ctx, query, roomID, receiverID, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]*models.Message, error) {
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return msgs, nil
}
