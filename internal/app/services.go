package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/services"
)

type Services struct {
	PolicySource services.PolicySource
	PolicyAdmin  services.PolicyAdminService
	Suppressor   services.NotificationSuppressor
	Gate         services.GateService
	Reaction     services.ReactionService
	Audit        services.AuditService
	Reconcile    services.ReconcileService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")

	defaultPolicy := services.NewPhantomPolicy(cfg.DefaultPolicy)

	var source services.PolicySource
	if clients.PolicyStore != nil {
		source = services.NewRedisPolicySource(log, clients.PolicyStore, defaultPolicy)
	} else {
		source = services.NewStaticPolicySource(defaultPolicy)
	}

	var store services.PolicyStore
	if clients.PolicyStore != nil {
		store = clients.PolicyStore
	}
	policyAdmin := services.NewPolicyAdminService(log, source, store)

	suppressor := services.NewNotificationSuppressor(log, r.Notification, cfg.SuppressionWindow)
	gate := services.NewGateService(log, source, r.Post, r.ReactionCounter, r.PhantomReaction, r.FeedEntry, suppressor)
	reaction := services.NewReactionService(db, log, r.Reaction, r.Post, r.Notification, r.ReactionCounter, gate, []string{cfg.ReactionKind})
	audit := services.NewAuditService(log, r.PhantomReaction)
	reconcile := services.NewReconcileService(log, source, r.Reaction, r.PhantomReaction, r.ReactionCounter, r.FeedEntry, cfg.ReactionKind, cfg.ReconcileWorkers)

	return Services{
		PolicySource: source,
		PolicyAdmin:  policyAdmin,
		Suppressor:   suppressor,
		Gate:         gate,
		Reaction:     reaction,
		Audit:        audit,
		Reconcile:    reconcile,
	}
}
