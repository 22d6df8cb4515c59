package reconcilejob

import (
	"context"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/services"
)

type Activities struct {
	Log       *logger.Logger
	Reconcile services.ReconcileService
}

// Run executes one full reconciliation pass. The pass is idempotent, so
// Temporal's activity retries are safe.
func (a *Activities) Run(ctx context.Context) (Result, error) {
	report, err := a.Reconcile.Run(ctx)
	if err != nil {
		if a.Log != nil {
			a.Log.Error("scheduled reconciliation failed", "error", err)
		}
		return Result{}, err
	}
	return Result{
		ExcludedCategories: report.ExcludedCategories,
		AuditRowsInserted:  report.AuditRowsInserted,
		UsersRecounted:     report.UsersRecounted,
		UsersFailed:        report.UsersFailed,
		HistoryRowsPurged:  report.HistoryRowsPurged,
	}, nil
}
