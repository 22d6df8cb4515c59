package types

import (
	"time"

	"github.com/google/uuid"
)

// FeedEntry is the history mirror: one row per visible reaction per side
// (the actor's "given" stream and the author's "received" stream). The
// reconciler may purge these wholesale by category; the phantom audit
// table is never touched by that purge.
type FeedEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	PostID     uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Kind       string    `gorm:"not null;index;column:kind" json:"kind"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (FeedEntry) TableName() string { return "feed_entry" }
