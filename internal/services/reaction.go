package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/data/repos"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

var (
	ErrPostNotFound    = fmt.Errorf("post not found")
	ErrAlreadyReacted  = fmt.Errorf("reaction already exists")
	ErrNotReacted      = fmt.Errorf("reaction does not exist")
	ErrUnsupportedKind = fmt.Errorf("unsupported reaction kind")
)

// ReactionService hosts the reaction lifecycle and routes each change
// through the gate, inside one transaction, so the gate's decision and its
// effects commit or roll back with the reaction itself.
type ReactionService interface {
	React(ctx context.Context, actorID, postID uuid.UUID, kind string) (*types.Reaction, []GateDecision, error)
	Unreact(ctx context.Context, actorID, postID uuid.UUID, kind string) ([]GateDecision, error)
	CountersFor(ctx context.Context, userID uuid.UUID) (*types.ReactionCounter, error)
}

type reactionService struct {
	db            *gorm.DB
	log           *logger.Logger
	reactions     repos.ReactionRepo
	posts         repos.PostRepo
	notifications repos.NotificationRepo
	counters      repos.ReactionCounterRepo
	gate          GateService
	kinds         map[string]struct{}
}

// kinds is the closed set of reaction kinds the accounting pipeline
// covers. Reconciliation recounts exactly these kinds, so a kind outside
// the set must never reach the gate: its counter bump would be erased by
// the next recount overwrite.
func NewReactionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reactions repos.ReactionRepo,
	posts repos.PostRepo,
	notifications repos.NotificationRepo,
	counters repos.ReactionCounterRepo,
	gate GateService,
	kinds []string,
) ReactionService {
	if len(kinds) == 0 {
		kinds = []string{types.ReactionKindLike}
	}
	kindSet := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		if k != "" {
			kindSet[k] = struct{}{}
		}
	}
	return &reactionService{
		db:            db,
		log:           baseLog.With("service", "ReactionService"),
		reactions:     reactions,
		posts:         posts,
		notifications: notifications,
		counters:      counters,
		gate:          gate,
		kinds:         kindSet,
	}
}

func (s *reactionService) React(ctx context.Context, actorID, postID uuid.UUID, kind string) (*types.Reaction, []GateDecision, error) {
	if actorID == uuid.Nil || postID == uuid.Nil || kind == "" {
		return nil, nil, fmt.Errorf("invalid reaction input")
	}
	if _, ok := s.kinds[kind]; !ok {
		return nil, nil, ErrUnsupportedKind
	}

	var (
		reaction  *types.Reaction
		decisions []GateDecision
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.posts.GetByID(ctx, tx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		existing, err := s.reactions.GetByIdentity(ctx, tx, actorID, postID, kind)
		if err != nil {
			return err
		}
		switch {
		case existing != nil && !existing.DeletedAt.Valid:
			return ErrAlreadyReacted
		case existing != nil:
			if err := s.reactions.Restore(ctx, tx, existing.ID); err != nil {
				return err
			}
			existing.DeletedAt = gorm.DeletedAt{}
			reaction = existing
		default:
			rows, err := s.reactions.Create(ctx, tx, []*types.Reaction{{
				ID:     uuid.New(),
				UserID: actorID,
				PostID: postID,
				Kind:   kind,
			}})
			if err != nil {
				return err
			}
			reaction = rows[0]
		}

		// Stand-in for the notification subsystem's own create path; it
		// must exist before the gate runs so a hidden phantom can cancel it.
		if post.AuthorID != actorID {
			if _, err := s.notifications.Create(ctx, tx, []*types.Notification{{
				RecipientID: post.AuthorID,
				ActorID:     actorID,
				PostID:      postID,
				Kind:        notificationKindFor(kind),
				Data:        datatypes.JSON([]byte("{}")),
			}}); err != nil {
				return err
			}
		}

		for _, ev := range lifecycleEvents(actorID, post, kind, false) {
			decisions = append(decisions, s.gate.Apply(ctx, tx, ev))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return reaction, decisions, nil
}

func (s *reactionService) Unreact(ctx context.Context, actorID, postID uuid.UUID, kind string) ([]GateDecision, error) {
	if actorID == uuid.Nil || postID == uuid.Nil || kind == "" {
		return nil, fmt.Errorf("invalid reaction input")
	}
	if _, ok := s.kinds[kind]; !ok {
		return nil, ErrUnsupportedKind
	}

	var decisions []GateDecision
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.posts.GetByID(ctx, tx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		existing, err := s.reactions.GetByIdentity(ctx, tx, actorID, postID, kind)
		if err != nil {
			return err
		}
		if existing == nil || existing.DeletedAt.Valid {
			return ErrNotReacted
		}
		if err := s.reactions.SoftDeleteByID(ctx, tx, existing.ID); err != nil {
			return err
		}

		for _, ev := range lifecycleEvents(actorID, post, kind, true) {
			decisions = append(decisions, s.gate.Apply(ctx, tx, ev))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

func (s *reactionService) CountersFor(ctx context.Context, userID uuid.UUID) (*types.ReactionCounter, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user id")
	}
	counter, err := s.counters.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		counter = &types.ReactionCounter{UserID: userID}
	}
	return counter, nil
}

// lifecycleEvents expands one reaction change into its two accounting
// sides. Both share the post's category so the gate resolves nothing
// twice.
func lifecycleEvents(actorID uuid.UUID, post *types.Post, kind string, removed bool) []ReactionEvent {
	base := ReactionEvent{
		SubjectID:  actorID,
		ObjectID:   post.AuthorID,
		PostID:     post.ID,
		CategoryID: post.CategoryID,
		Kind:       kind,
		Removed:    removed,
	}
	given := base
	given.Direction = DirectionGiven
	received := base
	received.Direction = DirectionReceived
	return []ReactionEvent{given, received}
}
