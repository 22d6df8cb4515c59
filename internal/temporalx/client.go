package temporalx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/utils"
)

const namespaceRetention = 7 * 24 * time.Hour

// NewClient dials the configured Temporal cluster, retrying until the
// dial window closes. A missing TEMPORAL_ADDRESS returns (nil, nil),
// which disables the scheduled reconciliation worker.
func NewClient(log *logger.Logger) (temporalsdkclient.Client, error) {
	cfg := LoadConfig()
	if cfg.Address == "" {
		if log != nil {
			log.Warn("TEMPORAL_ADDRESS not set; Temporal disabled")
		}
		return nil, nil
	}

	dialTimeout := utils.GetEnvAsDuration("TEMPORAL_DIAL_TIMEOUT", 5*time.Second, log)
	dialWindow := utils.GetEnvAsDuration("TEMPORAL_DIAL_MAX_WAIT", time.Minute, log)

	opts := temporalsdkclient.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Logger:    log,
	}

	deadline := time.Now().Add(dialWindow)
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		c, err := temporalsdkclient.DialContext(ctx, opts)
		cancel()
		if err == nil {
			if log != nil && attempt > 1 {
				log.Info("Connected to Temporal", "address", cfg.Address, "namespace", cfg.Namespace, "attempts", attempt)
			}
			return c, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("temporal dial (address=%s namespace=%s): %w", cfg.Address, cfg.Namespace, err)
		}
		if log != nil {
			log.Warn("Temporal not reachable; retrying", "address", cfg.Address, "attempt", attempt, "error", err)
		}
		time.Sleep(retryDelay(attempt))
	}
}

// EnsureNamespace registers the namespace when the cluster does not know
// it yet. The worker runner calls this after a namespace-not-found start
// failure, which only happens on fresh self-hosted clusters.
func EnsureNamespace(ctx context.Context, c temporalsdkclient.Client, namespace string, log *logger.Logger) error {
	if c == nil || namespace == "" {
		return nil
	}
	cfg := LoadConfig()
	if cfg.Address == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// A NamespaceClient sends no namespace header, so it can talk to a
	// cluster before the namespace exists.
	nsClient, err := temporalsdkclient.NewNamespaceClient(temporalsdkclient.Options{
		HostPort: cfg.Address,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("temporal namespace client: %w", err)
	}
	defer nsClient.Close()

	for attempt := 1; ; attempt++ {
		_, err := nsClient.Describe(ctx, namespace)
		if err == nil {
			return nil
		}
		var nfe *serviceerror.NamespaceNotFound
		if !errors.As(err, &nfe) {
			if retryableRPC(err) && ctx.Err() == nil {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return fmt.Errorf("temporal namespace describe: %w", err)
		}

		regErr := nsClient.Register(ctx, &workflowservice.RegisterNamespaceRequest{
			Namespace:                        namespace,
			WorkflowExecutionRetentionPeriod: durationpb.New(namespaceRetention),
		})
		if regErr == nil {
			if log != nil {
				log.Info("Registered Temporal namespace", "namespace", namespace)
			}
			return nil
		}
		var already *serviceerror.NamespaceAlreadyExists
		if errors.As(regErr, &already) {
			return nil
		}
		if retryableRPC(regErr) && ctx.Err() == nil {
			time.Sleep(retryDelay(attempt))
			continue
		}
		return fmt.Errorf("temporal namespace register: %w", regErr)
	}
}

func retryDelay(attempt int) time.Duration {
	d := 250 * time.Millisecond
	for i := 1; i < attempt && d < 5*time.Second; i++ {
		d *= 2
	}
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func retryableRPC(err error) bool {
	if err == nil {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}
