package app

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/services"
	"github.com/yungbote/reactions-backend/internal/types"
	"github.com/yungbote/reactions-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string
	ListenAddr   string
	AllowOrigins []string

	ReactionKind      string
	SuppressionWindow time.Duration
	ReconcileWorkers  int
	ReconcileCron     string

	// DefaultPolicy applies when no value has been stored in redis yet.
	DefaultPolicy services.PhantomPolicyConfig
}

type fileConfig struct {
	AllowOrigins  []string                     `yaml:"allow_origins"`
	PhantomPolicy *services.PhantomPolicyConfig `yaml:"phantom_policy"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		JWTSecretKey:      utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		ListenAddr:        utils.GetEnv("LISTEN_ADDR", ":8080", log),
		ReactionKind:      utils.GetEnv("REACTION_KIND", types.ReactionKindLike, log),
		SuppressionWindow: utils.GetEnvAsDuration("SUPPRESSION_WINDOW", services.DefaultSuppressionWindow, log),
		ReconcileWorkers:  utils.GetEnvAsInt("RECONCILE_WORKERS", 4, log),
		ReconcileCron:     utils.GetEnv("RECONCILE_CRON", "", log),
		DefaultPolicy: services.PhantomPolicyConfig{
			ShowInHistory:    true,
			CountInAggregate: true,
		},
	}

	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		applyFileConfig(&cfg, path, log)
	}
	return cfg
}

func applyFileConfig(cfg *Config, path string, log *logger.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config file unreadable; using env defaults", "path", path, "error", err)
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("config file is not valid YAML; using env defaults", "path", path, "error", err)
		return
	}
	if len(fc.AllowOrigins) > 0 {
		cfg.AllowOrigins = fc.AllowOrigins
	}
	if fc.PhantomPolicy != nil {
		cfg.DefaultPolicy = *fc.PhantomPolicy
		log.Info("default phantom policy loaded from config file",
			"path", path,
			"excluded_categories", len(fc.PhantomPolicy.ExcludedCategoryIDs))
	}
}
