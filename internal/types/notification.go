package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationKindLiked = "liked"
)

type Notification struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipientID uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipient_id"`
	ActorID     uuid.UUID      `gorm:"type:uuid;not null" json:"actor_id"`
	PostID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	Kind        string         `gorm:"not null;index;column:kind" json:"kind"`
	Data        datatypes.JSON `gorm:"type:jsonb;column:data" json:"data"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	ReadAt      *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (Notification) TableName() string { return "notification" }
