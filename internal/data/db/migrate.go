package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + content
		&types.User{},
		&types.Category{},
		&types.Post{},

		// Ground-truth action log
		&types.Reaction{},

		// Derived accounting state
		&types.PhantomReaction{},
		&types.ReactionCounter{},

		// External-collaborator mirrors (history + notifications)
		&types.FeedEntry{},
		&types.Notification{},
	)
}
