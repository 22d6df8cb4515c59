package types

import (
	"time"

	"github.com/google/uuid"
)

// PhantomReaction is the audit trail of excluded reactions. Rows are
// append-only: the row survives policy flips and ordinary removals, and is
// keyed so a duplicate insert for the same (post, subject, kind) is a no-op.
type PhantomReaction struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_phantom_reaction_identity" json:"post_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_phantom_reaction_identity" json:"user_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Kind       string    `gorm:"not null;uniqueIndex:idx_phantom_reaction_identity;column:kind" json:"kind"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PhantomReaction) TableName() string { return "phantom_reaction" }
