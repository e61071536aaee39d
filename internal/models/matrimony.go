package models

import "time"

// Request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// MatrimonyProfile is the listing of a member seeking a match
type MatrimonyProfile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FullName   string    `json:"full_name"`
	Age        int       `json:"age"`
	Village    string    `json:"village"`
	PetaAtak   string    `json:"peta_atak"`
	Occupation string    `json:"occupation"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Request is a proposal from one profile to another
type Request struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OtherParty returns the participant that is not userID
func (r *Request) OtherParty(userID string) string {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// RequestWithProfile pairs a request with the profile of the other side
type RequestWithProfile struct {
	*Request
	OtherID string            `json:"other_id"`
	Profile *MatrimonyProfile `json:"profile,omitempty"`
}
