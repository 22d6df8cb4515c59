package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Post) ([]*types.Post, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error)
	// CategoryOf resolves a post's category. A missing or deleted post
	// yields uuid.Nil with no error so callers can fail open.
	CategoryOf(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (uuid.UUID, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (r *postRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Post) ([]*types.Post, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Post{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *postRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Post
	if err := t.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *postRepo) CategoryOf(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if postID == uuid.Nil {
		return uuid.Nil, nil
	}
	var ids []uuid.UUID
	err := t.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		Limit(1).
		Pluck("category_id", &ids).Error
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, nil
	}
	return ids[0], nil
}
