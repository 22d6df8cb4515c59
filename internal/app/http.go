package app

import (
	internalhttp "github.com/yungbote/reactions-backend/internal/http"
	"github.com/yungbote/reactions-backend/internal/http/handlers"
	"github.com/yungbote/reactions-backend/internal/http/middleware"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Reaction *handlers.ReactionHandler
	Admin    *handlers.AdminHandler
}

func wireHandlers(log *logger.Logger, s Services, r Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   handlers.NewHealthHandler(),
		Reaction: handlers.NewReactionHandler(s.Reaction, r.FeedEntry, r.Notification),
		Admin:    handlers.NewAdminHandler(s.PolicyAdmin, s.Audit, s.Reconcile),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)
}

func wireServer(cfg Config, h Handlers, auth *middleware.AuthMiddleware) *internalhttp.Server {
	return internalhttp.NewServer(internalhttp.RouterConfig{
		ServiceName:     "reactions-backend",
		AllowOrigins:    cfg.AllowOrigins,
		AuthMiddleware:  auth,
		ReactionHandler: h.Reaction,
		AdminHandler:    h.Admin,
		HealthHandler:   h.Health,
	})
}
