package services

import (
	"context"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"

	"github.com/google/uuid"
)

// NoticeRepository is the storage NoticeService needs
type NoticeRepository interface {
	Create(ctx context.Context, n *models.Notice) error
	List(ctx context.Context) ([]*models.Notice, error)
	MarkRead(ctx context.Context, userID string, at time.Time) error
	LastReadAt(ctx context.Context, userID string) (*time.Time, error)
	CountSince(ctx context.Context, since *time.Time) (int, error)
}

// NoticeService handles the notice board
type NoticeService struct {
	repo     NoticeRepository
	accounts Accounts
	now      func() time.Time
}

// NewNoticeService creates a new notice service
func NewNoticeService(repo NoticeRepository, accounts Accounts) *NoticeService {
	return &NoticeService{repo: repo, accounts: accounts, now: time.Now}
}

// NoticeInput carries a new notice
type NoticeInput struct {
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	ImageURL *string `json:"image_url"`
}

// List returns notices oldest first
func (s *NoticeService) List(ctx context.Context) ([]*models.Notice, error) {
	return s.repo.List(ctx)
}

// Post publishes a notice; administrators only
func (s *NoticeService) Post(ctx context.Context, userID string, in NoticeInput) (*models.Notice, error) {
	if err := requireAdmin(ctx, s.accounts, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.InvalidArg("title is required")
	}

	n := &models.Notice{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   strings.TrimSpace(in.Message),
		ImageURL:  nonEmpty(in.ImageURL),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkRead records that the user has read the board now
func (s *NoticeService) MarkRead(ctx context.Context, userID string) error {
	return s.repo.MarkRead(ctx, userID, s.now())
}

// UnreadCount counts notices posted since the user last read the board
func (s *NoticeService) UnreadCount(ctx context.Context, userID string) (int, error) {
	since, err := s.repo.LastReadAt(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.repo.CountSince(ctx, since)
}
