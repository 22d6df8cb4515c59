package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/data/repos"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

// AuditService exposes the phantom audit log for moderation review. The
// log is append-only; this service only reads it.
type AuditService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PhantomReaction, error)
	ListForCategories(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]*types.PhantomReaction, error)
}

type auditService struct {
	log      *logger.Logger
	phantoms repos.PhantomReactionRepo
}

func NewAuditService(baseLog *logger.Logger, phantoms repos.PhantomReactionRepo) AuditService {
	return &auditService{
		log:      baseLog.With("service", "AuditService"),
		phantoms: phantoms,
	}
}

const defaultAuditLimit = 100

func (s *auditService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PhantomReaction, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.phantoms.ListByUserID(ctx, nil, userID, limit)
}

func (s *auditService) ListForCategories(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]*types.PhantomReaction, error) {
	if len(categoryIDs) == 0 {
		return []*types.PhantomReaction{}, nil
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.phantoms.ListByCategoryIDs(ctx, nil, categoryIDs, limit)
}
