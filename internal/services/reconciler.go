package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
)

type GroundTruth interface {
	CountForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind string, excludedCategoryIDs []uuid.UUID) (given int64, received int64, err error)
	AffectedUserIDs(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
}

type AuditBackfiller interface {
	BackfillFromReactions(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) (int64, error)
}

type CounterWriter interface {
	Set(ctx context.Context, tx *gorm.DB, userID uuid.UUID, given, received int64) error
}

type HistoryPurger interface {
	DeleteByCategoryIDs(ctx context.Context, tx *gorm.DB, kind string, categoryIDs []uuid.UUID) (int64, error)
}

type ReconcileReport struct {
	ExcludedCategories int   `json:"excluded_categories"`
	AuditRowsInserted  int64 `json:"audit_rows_inserted"`
	UsersRecounted     int64 `json:"users_recounted"`
	UsersFailed        int64 `json:"users_failed"`
	HistoryRowsPurged  int64 `json:"history_rows_purged"`
}

// ReconcileService is the purge job body: it forces the audit log and the
// derived counters back into agreement with ground truth for the current
// policy. Every step is independently idempotent, so a run interrupted at
// any point is repaired by simply running again.
type ReconcileService interface {
	Run(ctx context.Context) (ReconcileReport, error)
}

type reconcileService struct {
	log      *logger.Logger
	policy   PolicySource
	truth    GroundTruth
	audit    AuditBackfiller
	counters CounterWriter
	history  HistoryPurger
	kind     string
	workers  int
}

func NewReconcileService(
	baseLog *logger.Logger,
	policy PolicySource,
	truth GroundTruth,
	audit AuditBackfiller,
	counters CounterWriter,
	history HistoryPurger,
	kind string,
	workers int,
) ReconcileService {
	if workers <= 0 {
		workers = 4
	}
	return &reconcileService{
		log:      baseLog.With("service", "ReconcileService"),
		policy:   policy,
		truth:    truth,
		audit:    audit,
		counters: counters,
		history:  history,
		kind:     kind,
		workers:  workers,
	}
}

func (s *reconcileService) Run(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	// One policy snapshot governs the whole run.
	policy := s.policy.Current(ctx)
	if policy.Empty() {
		s.log.Debug("no excluded categories; nothing to reconcile")
		return report, nil
	}
	categoryIDs := policy.ExcludedCategoryIDs()
	report.ExcludedCategories = len(categoryIDs)

	inserted, err := s.audit.BackfillFromReactions(ctx, nil, s.kind, categoryIDs)
	if err != nil {
		return report, fmt.Errorf("audit backfill: %w", err)
	}
	report.AuditRowsInserted = inserted

	userIDs, err := s.truth.AffectedUserIDs(ctx, nil, s.kind, categoryIDs)
	if err != nil {
		return report, fmt.Errorf("affected user discovery: %w", err)
	}

	if !policy.CountInAggregate() {
		var recounted, failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, userID := range userIDs {
			g.Go(func() error {
				given, received, err := s.truth.CountForUser(gctx, nil, userID, s.kind, categoryIDs)
				if err == nil {
					err = s.counters.Set(gctx, nil, userID, given, received)
				}
				if err != nil {
					// One bad row must not block correction for everyone else.
					failed.Add(1)
					s.log.Warn("recount failed; continuing", "user_id", userID, "error", err)
					return nil
				}
				recounted.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return report, err
		}
		report.UsersRecounted = recounted.Load()
		report.UsersFailed = failed.Load()
	}

	if !policy.ShowInHistory() {
		purged, err := s.history.DeleteByCategoryIDs(ctx, nil, s.kind, categoryIDs)
		if err != nil {
			return report, fmt.Errorf("history purge: %w", err)
		}
		report.HistoryRowsPurged = purged
	}

	s.log.Info("reconciliation finished",
		"excluded_categories", report.ExcludedCategories,
		"audit_rows_inserted", report.AuditRowsInserted,
		"users_recounted", report.UsersRecounted,
		"users_failed", report.UsersFailed,
		"history_rows_purged", report.HistoryRowsPurged)
	return report, nil
}
