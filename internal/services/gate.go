package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/data/repos"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

type Direction string

const (
	DirectionGiven    Direction = "given"
	DirectionReceived Direction = "received"
)

// ReactionEvent is one side of a reaction lifecycle change: the subject's
// "given" view or the object's "received" view, as a create or a removal.
type ReactionEvent struct {
	SubjectID  uuid.UUID
	ObjectID   uuid.UUID
	PostID     uuid.UUID
	CategoryID uuid.UUID // resolved from the post when Nil
	Kind       string
	Direction  Direction
	Removed    bool
}

// GateDecision is computed exactly once per event, from a single policy
// snapshot, and passed explicitly to every step that acts on the event.
// ShowInHistory/CountInAggregate describe what this event does; both are
// true for a non-phantom event.
type GateDecision struct {
	Phantom          bool      `json:"phantom"`
	ShowInHistory    bool      `json:"show_in_history"`
	CountInAggregate bool      `json:"count_in_aggregate"`
	CategoryID       uuid.UUID `json:"category_id"`
}

func (d GateDecision) AffectsCounters() bool { return d.CountInAggregate }
func (d GateDecision) AffectsHistory() bool  { return d.ShowInHistory }
func (d GateDecision) FullySuppressed() bool {
	return d.Phantom && !d.ShowInHistory && !d.CountInAggregate
}

type CategoryResolver interface {
	CategoryOf(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (uuid.UUID, error)
}

type CounterStore interface {
	Adjust(ctx context.Context, tx *gorm.DB, userID uuid.UUID, field repos.CounterField, delta int64) error
}

type PhantomRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, row *types.PhantomReaction) (bool, error)
}

type HistorySink interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.FeedEntry) ([]*types.FeedEntry, error)
	DeleteForReaction(ctx context.Context, tx *gorm.DB, ownerID, actorID, postID uuid.UUID, kind string) (int64, error)
}

// GateService decides, per reaction lifecycle event, whether the event
// reaches the counters and/or the history mirror, and records the audit
// trail for phantom events. Accounting failures are logged and swallowed:
// they must never abort the reaction operation that triggered them.
type GateService interface {
	Evaluate(ctx context.Context, tx *gorm.DB, ev ReactionEvent) GateDecision
	Apply(ctx context.Context, tx *gorm.DB, ev ReactionEvent) GateDecision
}

type gateService struct {
	log        *logger.Logger
	policy     PolicySource
	categories CategoryResolver
	counters   CounterStore
	audit      PhantomRecorder
	history    HistorySink
	suppressor NotificationSuppressor
}

func NewGateService(
	baseLog *logger.Logger,
	policy PolicySource,
	categories CategoryResolver,
	counters CounterStore,
	audit PhantomRecorder,
	history HistorySink,
	suppressor NotificationSuppressor,
) GateService {
	return &gateService{
		log:        baseLog.With("service", "GateService"),
		policy:     policy,
		categories: categories,
		counters:   counters,
		audit:      audit,
		history:    history,
		suppressor: suppressor,
	}
}

func (s *gateService) Evaluate(ctx context.Context, tx *gorm.DB, ev ReactionEvent) GateDecision {
	// Full pass-through is the decision of record for anything that cannot
	// be resolved: a dropped real action is worse than a counted phantom.
	passThrough := GateDecision{ShowInHistory: true, CountInAggregate: true}

	categoryID := ev.CategoryID
	if categoryID == uuid.Nil {
		resolved, err := s.categories.CategoryOf(ctx, tx, ev.PostID)
		if err != nil {
			s.log.Warn("category resolution failed; passing event through", "post_id", ev.PostID, "error", err)
			return passThrough
		}
		if resolved == uuid.Nil {
			// No category is known here, so the decision (and any history
			// row written from it) carries a zero category id.
			return passThrough
		}
		categoryID = resolved
	}
	passThrough.CategoryID = categoryID

	policy := s.policy.Current(ctx)
	if policy.Empty() || !policy.IsExcluded(categoryID) {
		return passThrough
	}
	return GateDecision{
		Phantom:          true,
		ShowInHistory:    policy.ShowInHistory(),
		CountInAggregate: policy.CountInAggregate(),
		CategoryID:       categoryID,
	}
}

func (s *gateService) Apply(ctx context.Context, tx *gorm.DB, ev ReactionEvent) GateDecision {
	decision := s.Evaluate(ctx, tx, ev)
	s.applyDecision(ctx, tx, ev, decision)
	return decision
}

func (s *gateService) applyDecision(ctx context.Context, tx *gorm.DB, ev ReactionEvent, decision GateDecision) {
	if decision.AffectsCounters() {
		userID, field := counterTarget(ev)
		if userID != uuid.Nil {
			delta := int64(1)
			if ev.Removed {
				delta = -1
			}
			if err := s.counters.Adjust(ctx, tx, userID, field, delta); err != nil {
				s.log.Error("counter adjust failed", "user_id", userID, "field", field, "delta", delta, "error", err)
			}
		}
	}

	if decision.AffectsHistory() {
		ownerID := historyOwner(ev)
		if ownerID != uuid.Nil {
			if ev.Removed {
				if _, err := s.history.DeleteForReaction(ctx, tx, ownerID, ev.SubjectID, ev.PostID, ev.Kind); err != nil {
					s.log.Error("history entry removal failed", "user_id", ownerID, "post_id", ev.PostID, "error", err)
				}
			} else {
				entry := &types.FeedEntry{
					UserID:     ownerID,
					ActorID:    ev.SubjectID,
					PostID:     ev.PostID,
					CategoryID: decision.CategoryID,
					Kind:       ev.Kind,
				}
				if _, err := s.history.Create(ctx, tx, []*types.FeedEntry{entry}); err != nil {
					s.log.Error("history entry insert failed", "user_id", ownerID, "post_id", ev.PostID, "error", err)
				}
			}
		}
	}

	if decision.Phantom && !ev.Removed {
		row := &types.PhantomReaction{
			PostID:     ev.PostID,
			UserID:     ev.SubjectID,
			CategoryID: decision.CategoryID,
			Kind:       ev.Kind,
		}
		if _, err := s.audit.Record(ctx, tx, row); err != nil {
			s.log.Error("phantom audit insert failed", "post_id", ev.PostID, "user_id", ev.SubjectID, "error", err)
		}

		// With history visible the ordinary notification stands; only a
		// hidden phantom cancels it. The received-direction event carries
		// the recipient, so suppression runs at most once per reaction.
		if !decision.ShowInHistory && ev.Direction == DirectionReceived && ev.ObjectID != uuid.Nil {
			if _, err := s.suppressor.Suppress(ctx, tx, ev.ObjectID, notificationKindFor(ev.Kind), ev.PostID); err != nil {
				s.log.Warn("notification suppression failed", "recipient_id", ev.ObjectID, "post_id", ev.PostID, "error", err)
			}
		}
	}
}

func counterTarget(ev ReactionEvent) (uuid.UUID, repos.CounterField) {
	if ev.Direction == DirectionReceived {
		return ev.ObjectID, repos.CounterFieldReceived
	}
	return ev.SubjectID, repos.CounterFieldGiven
}

func historyOwner(ev ReactionEvent) uuid.UUID {
	if ev.Direction == DirectionReceived {
		return ev.ObjectID
	}
	return ev.SubjectID
}

func notificationKindFor(reactionKind string) string {
	switch reactionKind {
	case types.ReactionKindLike:
		return types.NotificationKindLiked
	default:
		return reactionKind
	}
}
