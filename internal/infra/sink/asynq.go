//go:build !gcloud

package sink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

const (
	defaultAsynqQueue    = "reminders"
	defaultAsynqMaxRetry = 3
	listPageSize         = 100
)

type AsynqConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      *tls.Config
	Queue         string
	MaxRetry      int
}

func (c AsynqConfig) RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:      c.RedisAddr,
		Password:  c.RedisPassword,
		DB:        c.RedisDB,
		TLSConfig: c.RedisTLS,
	}
}

func (c AsynqConfig) QueueName() string {
	if c.Queue == "" {
		return defaultAsynqQueue
	}
	return c.Queue
}

// AsynqSink schedules triggers as asynq tasks. Listing reads the queue's
// scheduled set, so a trigger disappears from ListScheduled once it is due.
type AsynqSink struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
	maxRetry  int
}

func NewAsynqSink(cfg AsynqConfig) *AsynqSink {
	maxRetry := cfg.MaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultAsynqMaxRetry
	}

	return &AsynqSink{
		client:    asynq.NewClient(cfg.RedisConnOpt()),
		inspector: asynq.NewInspector(cfg.RedisConnOpt()),
		queue:     cfg.QueueName(),
		maxRetry:  maxRetry,
	}
}

func (s *AsynqSink) ScheduleAt(ctx context.Context, at time.Time, payload domain.TriggerPayload) (string, error) {
	id := uuid.NewString()

	body, err := EncodeEnvelope(id, at, payload)
	if err != nil {
		return "", err
	}

	info, err := s.client.EnqueueContext(ctx,
		asynq.NewTask(TypeTriggerFire, body),
		asynq.TaskID(id),
		asynq.Queue(s.queue),
		asynq.ProcessAt(at),
		asynq.MaxRetry(s.maxRetry),
	)
	if err != nil {
		slog.WarnContext(ctx, "failed to enqueue asynq task",
			slog.String("trigger_id", id),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to enqueue trigger: %w", err)
	}

	slog.DebugContext(ctx, "trigger enqueued to asynq",
		slog.String("trigger_id", info.ID),
		slog.String("queue", info.Queue),
		slog.Time("process_at", info.NextProcessAt),
	)

	return info.ID, nil
}

func (s *AsynqSink) Cancel(ctx context.Context, triggerID string) error {
	err := s.inspector.DeleteTask(s.queue, triggerID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			slog.InfoContext(ctx, "trigger not found in asynq (may have been processed)",
				slog.String("trigger_id", triggerID),
			)
			return nil
		}
		return fmt.Errorf("failed to delete asynq task: %w", err)
	}

	slog.DebugContext(ctx, "trigger deleted from asynq",
		slog.String("trigger_id", triggerID),
	)
	return nil
}

func (s *AsynqSink) ListScheduled(ctx context.Context) ([]domain.ScheduledTrigger, error) {
	out := make([]domain.ScheduledTrigger, 0)

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tasks, err := s.inspector.ListScheduledTasks(s.queue, asynq.PageSize(listPageSize), asynq.Page(page))
		if err != nil {
			if errors.Is(err, asynq.ErrQueueNotFound) {
				return out, nil
			}
			return nil, fmt.Errorf("failed to list asynq tasks: %w", err)
		}

		for _, info := range tasks {
			if info.Type != TypeTriggerFire {
				continue
			}
			env, err := DecodeEnvelope(info.Payload)
			if err != nil {
				slog.WarnContext(ctx, "skipping undecodable asynq task",
					slog.String("task_id", info.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			trigger := env.Trigger()
			trigger.ID = info.ID
			if !info.NextProcessAt.IsZero() {
				trigger.ScheduledAt = info.NextProcessAt
			}
			out = append(out, trigger)
		}

		if len(tasks) < listPageSize {
			break
		}
	}

	sortTriggers(out)
	return out, nil
}

func (s *AsynqSink) Close() error {
	return errors.Join(s.client.Close(), s.inspector.Close())
}
