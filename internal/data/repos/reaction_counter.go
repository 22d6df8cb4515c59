package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

type CounterField string

const (
	CounterFieldGiven    CounterField = "given_count"
	CounterFieldReceived CounterField = "received_count"
)

type ReactionCounterRepo interface {
	// Adjust applies a signed delta to one field in a single atomic
	// statement, clamped so the stored value never goes below zero.
	Adjust(ctx context.Context, tx *gorm.DB, userID uuid.UUID, field CounterField, delta int64) error
	// Set overwrites both fields; reconciliation only.
	Set(ctx context.Context, tx *gorm.DB, userID uuid.UUID, given, received int64) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ReactionCounter, error)
}

type reactionCounterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReactionCounterRepo(db *gorm.DB, baseLog *logger.Logger) ReactionCounterRepo {
	return &reactionCounterRepo{db: db, log: baseLog.With("repo", "ReactionCounterRepo")}
}

func (r *reactionCounterRepo) Adjust(ctx context.Context, tx *gorm.DB, userID uuid.UUID, field CounterField, delta int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || delta == 0 {
		return nil
	}
	switch field {
	case CounterFieldGiven, CounterFieldReceived:
	default:
		return fmt.Errorf("unknown counter field %q", field)
	}

	query := fmt.Sprintf(`
		INSERT INTO reaction_counter (user_id, %[1]s, updated_at)
		VALUES (?, GREATEST(0, ?), now())
		ON CONFLICT (user_id) DO UPDATE
		SET %[1]s = GREATEST(0, reaction_counter.%[1]s + ?), updated_at = now()
		RETURNING %[1]s`, field)

	var newValue int64
	if err := t.WithContext(ctx).Raw(query, userID, delta, delta).Scan(&newValue).Error; err != nil {
		return err
	}
	if delta < 0 && newValue == 0 {
		// May have been clamped; worth a trace when hunting drift.
		r.log.Debug("counter decrement reached zero", "user_id", userID, "field", field, "delta", delta)
	}
	return nil
}

func (r *reactionCounterRepo) Set(ctx context.Context, tx *gorm.DB, userID uuid.UUID, given, received int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Exec(`
		INSERT INTO reaction_counter (user_id, given_count, received_count, updated_at)
		VALUES (?, GREATEST(0, ?), GREATEST(0, ?), now())
		ON CONFLICT (user_id) DO UPDATE
		SET given_count = GREATEST(0, EXCLUDED.given_count),
		    received_count = GREATEST(0, EXCLUDED.received_count),
		    updated_at = now()`,
		userID, given, received,
	).Error
}

func (r *reactionCounterRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ReactionCounter, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.ReactionCounter
	if err := t.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
