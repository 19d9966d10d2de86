package services

import (
	"context"
	"fmt"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
)

// NotificationService records and lists user notifications
type NotificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Notify stores a notification. Failures are logged and swallowed so they
// never fail the operation that triggered them. Self-notifications are dropped.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if n.ActorID == n.RecipientID {
		return
	}
	if err := s.repo.CreateNotification(ctx, &n); err != nil {
		s.logger.Warn("Failed to store notification",
			zap.String("type", n.Type),
			zap.Uint("recipient_id", n.RecipientID),
			zap.Error(err))
	}
}

// List returns one page of the viewer's notifications and the total count
func (s *NotificationService) List(ctx context.Context, viewer Viewer, page, limit int) ([]models.Notification, int64, error) {
	if viewer.IsAnonymous() {
		return nil, 0, fmt.Errorf("%w: sign in to read notifications", ErrForbidden)
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return s.repo.GetByRecipientID(ctx, viewer.ID, page, limit)
}

// UnreadCount returns the number of unread notifications of the viewer
func (s *NotificationService) UnreadCount(ctx context.Context, viewer Viewer) (int64, error) {
	return s.repo.GetUnreadCount(ctx, viewer.ID)
}

// MarkRead marks one of the viewer's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, viewer Viewer, id uint) error {
	ok, err := s.repo.MarkAsRead(ctx, viewer.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	return nil
}

// MarkAllRead marks every notification of the viewer read
func (s *NotificationService) MarkAllRead(ctx context.Context, viewer Viewer) error {
	return s.repo.MarkAllAsRead(ctx, viewer.ID)
}
