package app

import (
	temporalsdkclient "go.temporal.io/sdk/client"

	redisclient "github.com/yungbote/reactions-backend/internal/clients/redis"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/temporalx"
)

type Clients struct {
	PolicyStore *redisclient.PolicyStore
	Temporal    temporalsdkclient.Client
}

// wireClients connects optional backing services. A missing redis means
// the policy comes from the static config default; a missing temporal
// address disables the scheduled reconciliation worker.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var clients Clients

	store, err := redisclient.NewPolicyStore(log)
	if err != nil {
		log.Warn("redis policy store unavailable; using static policy", "error", err)
	} else {
		clients.PolicyStore = store
	}

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Warn("temporal unavailable; scheduled reconciliation disabled", "error", err)
	} else {
		clients.Temporal = tc
	}
	return clients
}

func (c Clients) Close() {
	if c.PolicyStore != nil {
		_ = c.PolicyStore.Close()
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
}
