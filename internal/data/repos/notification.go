package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error)
	// DeleteRecent removes unread notifications matching the tuple created
	// within the window. Zero matches is a normal outcome: the notification
	// may already be read, delivered long ago, or never created.
	DeleteRecent(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID, window time.Duration) (int64, error)
	ListByRecipientID(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Notification{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) DeleteRecent(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID, window time.Duration) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if recipientID == uuid.Nil || postID == uuid.Nil || kind == "" || window <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-window)
	res := t.WithContext(ctx).
		Where("recipient_id = ? AND kind = ? AND post_id = ? AND read_at IS NULL AND created_at >= ?",
			recipientID, kind, postID, cutoff).
		Delete(&types.Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *notificationRepo) ListByRecipientID(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Notification
	if recipientID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
