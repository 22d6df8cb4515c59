package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
)

// DefaultSuppressionWindow bounds how far back a suppression reaches.
// Notification creation is an asynchronous side effect of the same event,
// so the matching row may land slightly after the gate runs; anything
// older than the window was a real, already-delivered notification.
const DefaultSuppressionWindow = 30 * time.Second

type NotificationDeleter interface {
	DeleteRecent(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID, window time.Duration) (int64, error)
}

// NotificationSuppressor cancels the pending notification for a phantom
// reaction. Best effort: zero matches is not an error.
type NotificationSuppressor interface {
	Suppress(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID) (int64, error)
}

type notificationSuppressor struct {
	log           *logger.Logger
	notifications NotificationDeleter
	window        time.Duration
}

func NewNotificationSuppressor(baseLog *logger.Logger, notifications NotificationDeleter, window time.Duration) NotificationSuppressor {
	if window <= 0 {
		window = DefaultSuppressionWindow
	}
	return &notificationSuppressor{
		log:           baseLog.With("service", "NotificationSuppressor"),
		notifications: notifications,
		window:        window,
	}
}

func (s *notificationSuppressor) Suppress(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID) (int64, error) {
	deleted, err := s.notifications.DeleteRecent(ctx, tx, recipientID, kind, postID, s.window)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Debug("suppressed notification", "recipient_id", recipientID, "kind", kind, "post_id", postID, "count", deleted)
	}
	return deleted, nil
}
