package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReactionKindLike = "like"
)

// Reaction is the ground-truth action log row. It is owned by the reaction
// lifecycle path; the accounting engine only reads it and observes its
// create/remove events.
type Reaction struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reaction_identity" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reaction_identity" json:"post_id"`
	Post      *Post          `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"post,omitempty"`
	Kind      string         `gorm:"not null;index;uniqueIndex:idx_reaction_identity;column:kind" json:"kind"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Reaction) TableName() string { return "reaction" }
