package types

import (
	"time"

	"github.com/google/uuid"
)

// ReactionCounter holds the derived per-user aggregates. Both fields are
// kept non-negative at the storage layer; writes go through the gate's
// clamped adjust or the reconciler's overwrite, never both at once.
type ReactionCounter struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	GivenCount    int64     `gorm:"not null;default:0;column:given_count" json:"given_count"`
	ReceivedCount int64     `gorm:"not null;default:0;column:received_count" json:"received_count"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReactionCounter) TableName() string { return "reaction_counter" }
