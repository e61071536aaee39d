package models

import "time"

// RoomTypeMatrimony tags rooms created from accepted matrimony requests
const RoomTypeMatrimony = "matrimony"

// ChatRoom is a participant-pair container for messages
type ChatRoom struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	ParticipantIDs []string  `json:"participant_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasParticipant reports whether userID belongs to the room
func (r *ChatRoom) HasParticipant(userID string) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the first participant that is not userID
func (r *ChatRoom) OtherParticipant(userID string) string {
	for _, id := range r.ParticipantIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

// Message is one chat line
type Message struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
