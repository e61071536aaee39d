package services

import (
	"context"

	"samaj-backend/internal/models"
)

const notificationListLimit = 100

// NotificationRepository is the storage NotificationService needs
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

// NotificationService reads a user's notifications
type NotificationService struct {
	repo NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the user's latest notifications
func (s *NotificationService) List(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, notificationListLimit)
}

// MarkAllRead flags all of the user's notifications read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount counts the user's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
