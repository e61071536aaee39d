package services

import (
	"context"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MatrimonyRepository is the storage MatrimonyService needs
type MatrimonyRepository interface {
	UpsertProfile(ctx context.Context, profile *models.MatrimonyProfile) error
	GetProfileByUserID(ctx context.Context, userID string) (*models.MatrimonyProfile, error)
	ListProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.MatrimonyProfile, error)
	ListProfiles(ctx context.Context, excludeUserID string, limit, offset int) ([]*models.MatrimonyProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
	CreateRequest(ctx context.Context, req *models.Request) error
	GetRequest(ctx context.Context, id string) (*models.Request, error)
	UpdateRequestStatus(ctx context.Context, id, status string) error
	PendingExists(ctx context.Context, userA, userB string) (bool, error)
	AcceptedExists(ctx context.Context, userA, userB string) (bool, error)
	ListReceived(ctx context.Context, receiverID, status string) ([]*models.Request, error)
	ListInvolving(ctx context.Context, userID, status string) ([]*models.Request, error)
}

// RoomEnsurer finds or creates the chat room for a pair
type RoomEnsurer interface {
	EnsureRoom(ctx context.Context, userA, userB string) (*models.ChatRoom, error)
}

// AcceptNotifier notifies both families of an accepted request
type AcceptNotifier interface {
	NotifyOnAccept(ctx context.Context, accepterID, senderID string) (int, error)
}

// MatrimonyService handles matrimony profiles and the request/connect workflow
type MatrimonyService struct {
	repo      MatrimonyRepository
	rooms     RoomEnsurer
	notifier  AcceptNotifier
	publisher UserPublisher
	now       func() time.Time
}

// NewMatrimonyService creates a new matrimony service
func NewMatrimonyService(repo MatrimonyRepository, rooms RoomEnsurer, notifier AcceptNotifier, publisher UserPublisher) *MatrimonyService {
	return &MatrimonyService{
		repo:      repo,
		rooms:     rooms,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
	}
}

// ProfileInput carries the editable matrimony profile fields
type ProfileInput struct {
	FullName   string  `json:"full_name"`
	Age        int     `json:"age"`
	Village    string  `json:"village"`
	PetaAtak   string  `json:"peta_atak"`
	Occupation string  `json:"occupation"`
	ImageURL   *string `json:"image_url"`
}

// SaveProfile creates or replaces the user's matrimony profile
func (s *MatrimonyService) SaveProfile(ctx context.Context, userID string, in ProfileInput) (*models.MatrimonyProfile, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperrors.InvalidArg("full name is required")
	}
	if in.Age < 0 {
		return nil, apperrors.InvalidArg("age must not be negative")
	}

	profile := &models.MatrimonyProfile{
		ID:         uuid.New().String(),
		UserID:     userID,
		FullName:   name,
		Age:        in.Age,
		Village:    strings.TrimSpace(in.Village),
		PetaAtak:   strings.TrimSpace(in.PetaAtak),
		Occupation: strings.TrimSpace(in.Occupation),
		ImageURL:   in.ImageURL,
		CreatedAt:  s.now(),
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile returns a user's matrimony profile
func (s *MatrimonyService) GetProfile(ctx context.Context, userID string) (*models.MatrimonyProfile, error) {
	return s.repo.GetProfileByUserID(ctx, userID)
}

// DeleteProfile removes the user's matrimony profile
func (s *MatrimonyService) DeleteProfile(ctx context.Context, userID string) error {
	return s.repo.DeleteProfile(ctx, userID)
}

// ListProfiles returns other members' profiles
func (s *MatrimonyService) ListProfiles(ctx context.Context, userID string, limit, offset int) ([]*models.MatrimonyProfile, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListProfiles(ctx, userID, limit, offset)
}

// SendRequest sends a pending request from sender to receiver
func (s *MatrimonyService) SendRequest(ctx context.Context, senderID, receiverID string) (*models.Request, error) {
	if senderID == receiverID {
		return nil, apperrors.ErrRequestToSelf
	}
	if _, err := s.repo.GetProfileByUserID(ctx, receiverID); err != nil {
		return nil, err
	}

	exists, err := s.repo.PendingExists(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrRequestExists
	}

	connected, err := s.repo.AcceptedExists(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, apperrors.ErrAlreadyConnected
	}

	now := s.now()
	req := &models.Request{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.RequestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	log.Info().Str("request_id", req.ID).Str("sender_id", senderID).Str("receiver_id", receiverID).Msg("Request sent")
	return req, nil
}

// AcceptResult reports what accepting a request produced
type AcceptResult struct {
	Request           *models.Request  `json:"request"`
	Room              *models.ChatRoom `json:"room,omitempty"`
	NotificationsSent int              `json:"notifications_sent"`
}

// AcceptRequest accepts a pending request addressed to accepterID, makes sure
// the pair has a chat room and notifies both families. Room and notification
// failures are logged and never undo the acceptance.
func (s *MatrimonyService) AcceptRequest(ctx context.Context, requestID, accepterID string) (*AcceptResult, error) {
	req, err := s.pendingFor(ctx, requestID, accepterID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRequestStatus(ctx, req.ID, models.RequestStatusAccepted); err != nil {
		return nil, err
	}
	req.Status = models.RequestStatusAccepted
	req.UpdatedAt = s.now()

	result := &AcceptResult{Request: req}

	room, err := s.rooms.EnsureRoom(ctx, accepterID, req.SenderID)
	if err != nil {
		log.Error().Err(err).Str("request_id", req.ID).Msg("Failed to ensure chat room")
	} else {
		result.Room = room
	}

	sent, err := s.notifier.NotifyOnAccept(ctx, accepterID, req.SenderID)
	if err != nil {
		log.Error().Err(err).Str("request_id", req.ID).Msg("Family notification incomplete")
	}
	result.NotificationsSent = sent

	_ = s.publisher.SendToUser(req.SenderID, WSMessage{Type: WSTypeRequestAccepted, Data: result})

	log.Info().
		Str("request_id", req.ID).
		Str("accepter_id", accepterID).
		Str("sender_id", req.SenderID).
		Int("notifications", sent).
		Msg("Request accepted")

	return result, nil
}

// RejectRequest rejects a pending request addressed to userID
func (s *MatrimonyService) RejectRequest(ctx context.Context, requestID, userID string) (*models.Request, error) {
	req, err := s.pendingFor(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRequestStatus(ctx, req.ID, models.RequestStatusRejected); err != nil {
		return nil, err
	}
	req.Status = models.RequestStatusRejected
	req.UpdatedAt = s.now()
	return req, nil
}

func (s *MatrimonyService) pendingFor(ctx context.Context, requestID, receiverID string) (*models.Request, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != receiverID {
		return nil, apperrors.ErrRequestNotFound
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperrors.ErrRequestNotPending
	}
	return req, nil
}

// ListReceived returns pending requests addressed to the user with the sender's profile
func (s *MatrimonyService) ListReceived(ctx context.Context, userID string) ([]*models.RequestWithProfile, error) {
	reqs, err := s.repo.ListReceived(ctx, userID, models.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	return s.withProfiles(ctx, userID, reqs)
}

// ListConnections returns accepted requests in either direction with the other side's profile
func (s *MatrimonyService) ListConnections(ctx context.Context, userID string) ([]*models.RequestWithProfile, error) {
	reqs, err := s.repo.ListInvolving(ctx, userID, models.RequestStatusAccepted)
	if err != nil {
		return nil, err
	}
	return s.withProfiles(ctx, userID, reqs)
}

func (s *MatrimonyService) withProfiles(ctx context.Context, userID string, reqs []*models.Request) ([]*models.RequestWithProfile, error) {
	otherIDs := make([]string, 0, len(reqs))
	for _, req := range reqs {
		otherIDs = append(otherIDs, req.OtherParty(userID))
	}

	profiles, err := s.repo.ListProfilesByUserIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*models.RequestWithProfile, 0, len(reqs))
	for i, req := range reqs {
		result = append(result, &models.RequestWithProfile{
			Request: req,
			OtherID: otherIDs[i],
			Profile: profiles[otherIDs[i]],
		})
	}
	return result, nil
}

// StartChat returns the chat room for two connected users
func (s *MatrimonyService) StartChat(ctx context.Context, userID, otherID string) (*models.ChatRoom, error) {
	connected, err := s.repo.AcceptedExists(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, apperrors.ErrNotConnected
	}
	return s.rooms.EnsureRoom(ctx, userID, otherID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
