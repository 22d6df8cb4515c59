package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

type ReactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Reaction) ([]*types.Reaction, error)
	// GetByIdentity looks up the (user, post, kind) row including
	// soft-deleted ones, so a re-reaction can restore instead of insert.
	GetByIdentity(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID, kind string) (*types.Reaction, error)
	Restore(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// CountForUser computes the ground-truth given/received totals for a
	// user, excluding reactions on posts in the given categories.
	CountForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind string, excludedCategoryIDs []uuid.UUID) (given int64, received int64, err error)
	// AffectedUserIDs returns every user that appears as subject or object
	// of a live reaction in the given categories, deduplicated.
	AffectedUserIDs(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
}

type reactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
	return &reactionRepo{db: db, log: baseLog.With("repo", "ReactionRepo")}
}

func (r *reactionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Reaction) ([]*types.Reaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Reaction{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reactionRepo) GetByIdentity(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID, kind string) (*types.Reaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || postID == uuid.Nil || kind == "" {
		return nil, nil
	}
	var out []*types.Reaction
	if err := t.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *reactionRepo) Restore(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Model(&types.Reaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *reactionRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.Reaction{}).Error
}

func (r *reactionRepo) CountForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind string, excludedCategoryIDs []uuid.UUID) (int64, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, 0, nil
	}

	base := func(col string) *gorm.DB {
		q := t.WithContext(ctx).
			Table("reaction r").
			Joins("JOIN post p ON p.id = r.post_id").
			Where("r.kind = ? AND r.deleted_at IS NULL AND p.deleted_at IS NULL", kind).
			Where(col+" = ?", userID)
		if len(excludedCategoryIDs) > 0 {
			q = q.Where("p.category_id NOT IN ?", excludedCategoryIDs)
		}
		return q
	}

	var given, received int64
	if err := base("r.user_id").Count(&given).Error; err != nil {
		return 0, 0, err
	}
	if err := base("p.author_id").Count(&received).Error; err != nil {
		return 0, 0, err
	}
	return given, received, nil
}

func (r *reactionRepo) AffectedUserIDs(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if len(categoryIDs) == 0 {
		return out, nil
	}
	err := t.WithContext(ctx).Raw(`
		SELECT r.user_id AS uid
		FROM reaction r JOIN post p ON p.id = r.post_id
		WHERE r.kind = ? AND r.deleted_at IS NULL AND p.deleted_at IS NULL AND p.category_id IN ?
		UNION
		SELECT p.author_id AS uid
		FROM reaction r JOIN post p ON p.id = r.post_id
		WHERE r.kind = ? AND r.deleted_at IS NULL AND p.deleted_at IS NULL AND p.category_id IN ?`,
		kind, categoryIDs, kind, categoryIDs,
	).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
