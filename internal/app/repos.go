package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/data/repos"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
)

type Repos struct {
	Post            repos.PostRepo
	Reaction        repos.ReactionRepo
	PhantomReaction repos.PhantomReactionRepo
	ReactionCounter repos.ReactionCounterRepo
	Notification    repos.NotificationRepo
	FeedEntry       repos.FeedEntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Post:            repos.NewPostRepo(db, log),
		Reaction:        repos.NewReactionRepo(db, log),
		PhantomReaction: repos.NewPhantomReactionRepo(db, log),
		ReactionCounter: repos.NewReactionCounterRepo(db, log),
		Notification:    repos.NewNotificationRepo(db, log),
		FeedEntry:       repos.NewFeedEntryRepo(db, log),
	}
}
