package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/services"
	"github.com/yungbote/reactions-backend/internal/temporalx"
	"github.com/yungbote/reactions-backend/internal/temporalx/reconcilejob"
	"github.com/yungbote/reactions-backend/internal/utils"
)

type Runner struct {
	log *logger.Logger

	tc        temporalsdkclient.Client
	reconcile services.ReconcileService
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, reconcile services.ReconcileService) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if reconcile == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{log: log, tc: tc, reconcile: reconcile}, nil
}

func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	maxWait := 60 * time.Second
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return nil
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) {
			if err := temporalx.EnsureNamespace(ctx, r.tc, cfg.Namespace, r.log); err != nil && r.log != nil {
				r.log.Warn("Temporal namespace ensure failed", "namespace", cfg.Namespace, "error", err)
			}
		}

		if time.Now().After(deadline) {
			return startErr
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "namespace", cfg.Namespace, "attempt", attempt, "error", startErr)
		}
		time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
	}
}

func (r *Runner) newWorker() worker.Worker {
	cfg := temporalx.LoadConfig()

	concurrency := utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, r.log)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &reconcilejob.Activities{
		Log:       r.log,
		Reconcile: r.reconcile,
	}

	w.RegisterWorkflowWithOptions(reconcilejob.Workflow, workflow.RegisterOptions{Name: reconcilejob.WorkflowName})
	w.RegisterActivityWithOptions(acts.Run, activity.RegisterOptions{Name: reconcilejob.ActivityRun})
	return w
}

// StartSchedule registers the periodic reconciliation workflow using a
// Temporal cron expression. An empty schedule disables it.
func (r *Runner) StartSchedule(ctx context.Context, cronSchedule string) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	if cronSchedule == "" {
		return nil
	}
	cfg := temporalx.LoadConfig()
	_, err := r.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:           reconcilejob.WorkflowID,
		TaskQueue:    cfg.TaskQueue,
		CronSchedule: cronSchedule,
	}, reconcilejob.WorkflowName)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	if r.log != nil {
		r.log.Info("reconciliation schedule registered", "cron", cronSchedule, "workflow_id", reconcilejob.WorkflowID)
	}
	return nil
}
