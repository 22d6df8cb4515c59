package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

const pgUniqueViolation = "23505"

type PhantomReactionRepo interface {
	// Record inserts an audit row, keyed by (post, user, kind). Inserting
	// the same identity twice is a no-op; the bool reports whether a row
	// was actually written.
	Record(ctx context.Context, tx *gorm.DB, row *types.PhantomReaction) (bool, error)

	ListByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID, limit int) ([]*types.PhantomReaction, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PhantomReaction, error)

	// BackfillFromReactions inserts an audit row for every live reaction in
	// the given categories that has none yet. Safe to run repeatedly.
	BackfillFromReactions(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) (int64, error)
}

type phantomReactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhantomReactionRepo(db *gorm.DB, baseLog *logger.Logger) PhantomReactionRepo {
	return &phantomReactionRepo{db: db, log: baseLog.With("repo", "PhantomReactionRepo")}
}

func (r *phantomReactionRepo) Record(ctx context.Context, tx *gorm.DB, row *types.PhantomReaction) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.PostID == uuid.Nil || row.UserID == uuid.Nil || row.Kind == "" {
		return false, nil
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}, {Name: "kind"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		// Concurrent insert of the same identity can still surface the
		// unique violation; it carries the same meaning as DO NOTHING.
		var pgErr *pgconn.PgError
		if errors.As(res.Error, &pgErr) && pgErr.Code == pgUniqueViolation {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *phantomReactionRepo) ListByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID, limit int) ([]*types.PhantomReaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PhantomReaction
	if len(categoryIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phantomReactionRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PhantomReaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PhantomReaction
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phantomReactionRepo) BackfillFromReactions(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if kind == "" || len(categoryIDs) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).Exec(`
		INSERT INTO phantom_reaction (post_id, user_id, category_id, kind, created_at)
		SELECT r.post_id, r.user_id, p.category_id, r.kind, r.created_at
		FROM reaction r JOIN post p ON p.id = r.post_id
		WHERE r.kind = ? AND r.deleted_at IS NULL AND p.deleted_at IS NULL AND p.category_id IN ?
		ON CONFLICT (post_id, user_id, kind) DO NOTHING`,
		kind, categoryIDs,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
