package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/reactions-backend/internal/http/handlers"
	httpMW "github.com/yungbote/reactions-backend/internal/http/middleware"
)

type RouterConfig struct {
	ServiceName  string
	AllowOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	ReactionHandler *httpH.ReactionHandler
	AdminHandler    *httpH.AdminHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "reactions-backend"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.ReactionHandler != nil {
			protected.POST("/posts/:id/reactions", cfg.ReactionHandler.React)
			protected.DELETE("/posts/:id/reactions/:kind", cfg.ReactionHandler.Unreact)
			protected.GET("/users/:id/counters", cfg.ReactionHandler.GetCounters)
			protected.GET("/me/feed", cfg.ReactionHandler.GetFeed)
			protected.GET("/me/notifications", cfg.ReactionHandler.GetNotifications)
		}
	}

	admin := protected.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		if cfg.AdminHandler != nil {
			admin.GET("/policy", cfg.AdminHandler.GetPolicy)
			admin.PUT("/policy", cfg.AdminHandler.UpdatePolicy)
			admin.POST("/reconcile", cfg.AdminHandler.Reconcile)
			admin.GET("/audit", cfg.AdminHandler.ListAudit)
		}
	}

	return r
}
