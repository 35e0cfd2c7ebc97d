//go:build !gcloud

package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/sink"
)

const defaultConcurrency = 10

type Deliverer interface {
	Deliver(ctx context.Context, trigger domain.ScheduledTrigger) error
}

type Config struct {
	Sink        sink.AsynqConfig
	Concurrency int
}

// Worker consumes fired triggers from the asynq queue the local sink writes to.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	deliverer Deliverer
}

func New(cfg Config, deliverer Deliverer) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(
		cfg.Sink.RedisConnOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				cfg.Sink.QueueName(): 1,
			},
		},
	)

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		deliverer: deliverer,
	}
	w.mux.HandleFunc(sink.TypeTriggerFire, w.HandleFire)

	return w
}

// Start begins processing in the background.
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start reminder worker: %w", err)
	}
	slog.Info("reminder worker started")
	return nil
}

// Shutdown waits for active deliveries and stops the server.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
	slog.Info("reminder worker stopped")
}

// HandleFire delivers one fired trigger. A body that cannot be decoded is
// never retried.
func (w *Worker) HandleFire(ctx context.Context, task *asynq.Task) error {
	envelope, err := sink.DecodeEnvelope(task.Payload())
	if err != nil {
		slog.ErrorContext(ctx, "invalid trigger task payload",
			slog.String("task_type", task.Type()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	if err := w.deliverer.Deliver(ctx, envelope.Trigger()); err != nil {
		slog.WarnContext(ctx, "trigger delivery failed, task will be retried",
			slog.String("trigger_id", envelope.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	return nil
}
