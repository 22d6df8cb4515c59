package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

type FeedEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.FeedEntry) ([]*types.FeedEntry, error)
	// DeleteForReaction removes the single mirror row for one side of a
	// reaction (the owner's stream entry written by the same actor).
	DeleteForReaction(ctx context.Context, tx *gorm.DB, ownerID, actorID, postID uuid.UUID, kind string) (int64, error)
	// DeleteByCategoryIDs is the reconciler's history purge: every mirror
	// row for the kind in the given categories, regardless of owner.
	DeleteByCategoryIDs(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) (int64, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedEntry, error)
}

type feedEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedEntryRepo(db *gorm.DB, baseLog *logger.Logger) FeedEntryRepo {
	return &feedEntryRepo{db: db, log: baseLog.With("repo", "FeedEntryRepo")}
}

func (r *feedEntryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.FeedEntry) ([]*types.FeedEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.FeedEntry{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *feedEntryRepo) DeleteForReaction(ctx context.Context, tx *gorm.DB, ownerID, actorID, postID uuid.UUID, kind string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if ownerID == uuid.Nil || actorID == uuid.Nil || postID == uuid.Nil || kind == "" {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Where("user_id = ? AND actor_id = ? AND post_id = ? AND kind = ?", ownerID, actorID, postID, kind).
		Delete(&types.FeedEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *feedEntryRepo) DeleteByCategoryIDs(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if kind == "" || len(categoryIDs) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Where("kind = ? AND category_id IN ?", kind, categoryIDs).
		Delete(&types.FeedEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *feedEntryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.FeedEntry
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
