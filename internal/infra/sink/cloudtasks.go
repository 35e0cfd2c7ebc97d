//go:build gcloud

package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

type CloudTasksConfig struct {
	ProjectID           string
	LocationID          string
	QueueID             string
	TargetURL           string
	ServiceAccountEmail string
	MaxRetries          int
}

// CloudTasksSink schedules triggers as HTTP tasks that call back into the
// fire endpoint at the scheduled time.
type CloudTasksSink struct {
	client              *cloudtasks.Client
	queuePath           string
	targetURL           string
	serviceAccountEmail string
	maxRetries          int
}

func NewCloudTasksSink(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksSink, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksSink{
		client:              client,
		queuePath:           fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.LocationID, cfg.QueueID),
		targetURL:           cfg.TargetURL,
		serviceAccountEmail: cfg.ServiceAccountEmail,
		maxRetries:          maxRetries,
	}, nil
}

func (s *CloudTasksSink) ScheduleAt(ctx context.Context, at time.Time, payload domain.TriggerPayload) (string, error) {
	id := uuid.NewString()

	body, err := EncodeEnvelope(id, at, payload)
	if err != nil {
		return "", err
	}

	httpRequest := &taskspb.HttpRequest{
		HttpMethod: taskspb.HttpMethod_POST,
		Url:        s.targetURL,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: body,
	}
	if s.serviceAccountEmail != "" {
		httpRequest.AuthorizationHeader = &taskspb.HttpRequest_OidcToken{
			OidcToken: &taskspb.OidcToken{
				ServiceAccountEmail: s.serviceAccountEmail,
			},
		}
	}

	req := &taskspb.CreateTaskRequest{
		Parent: s.queuePath,
		Task: &taskspb.Task{
			Name:         s.queuePath + "/tasks/" + id,
			ScheduleTime: timestamppb.New(at),
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: httpRequest,
			},
		},
	}

	// Task names are fixed per trigger, so a retried create that already
	// landed reports AlreadyExists instead of duplicating the trigger.
	err = s.withRetry(ctx, "create", id, func() error {
		_, err := s.client.CreateTask(ctx, req)
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return err
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "trigger registered to Cloud Tasks",
		slog.String("trigger_id", id),
		slog.Time("schedule_time", at),
	)
	return id, nil
}

func (s *CloudTasksSink) Cancel(ctx context.Context, triggerID string) error {
	req := &taskspb.DeleteTaskRequest{
		Name: s.queuePath + "/tasks/" + triggerID,
	}

	err := s.withRetry(ctx, "delete", triggerID, func() error {
		err := s.client.DeleteTask(ctx, req)
		if status.Code(err) == codes.NotFound {
			slog.InfoContext(ctx, "task not found in Cloud Tasks (may have been processed)",
				slog.String("trigger_id", triggerID),
			)
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "trigger deleted from Cloud Tasks",
		slog.String("trigger_id", triggerID),
	)
	return nil
}

func (s *CloudTasksSink) ListScheduled(ctx context.Context) ([]domain.ScheduledTrigger, error) {
	it := s.client.ListTasks(ctx, &taskspb.ListTasksRequest{
		Parent:       s.queuePath,
		ResponseView: taskspb.Task_FULL,
	})

	out := make([]domain.ScheduledTrigger, 0)
	for {
		task, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list cloud tasks: %w", err)
		}

		httpRequest := task.GetHttpRequest()
		if httpRequest == nil {
			continue
		}

		env, err := DecodeEnvelope(httpRequest.GetBody())
		if err != nil {
			slog.WarnContext(ctx, "skipping undecodable cloud task",
				slog.String("task_name", task.GetName()),
				slog.String("error", err.Error()),
			)
			continue
		}

		trigger := env.Trigger()
		trigger.ID = path.Base(task.GetName())
		if task.GetScheduleTime() != nil {
			trigger.ScheduledAt = task.GetScheduleTime().AsTime()
		}
		out = append(out, trigger)
	}

	sortTriggers(out)
	return out, nil
}

// withRetry retries transient create and delete failures inside this
// adapter. That is safe because every task name is unique to its trigger, so
// a repeated create cannot add a second task. The reminder scheduler never
// retries on its own; it sees only the final error.
func (s *CloudTasksSink) withRetry(ctx context.Context, operation, triggerID string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.DebugContext(ctx, "retrying cloud tasks call",
				slog.String("operation", operation),
				slog.String("trigger_id", triggerID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		slog.WarnContext(ctx, "cloud tasks call failed",
			slog.String("operation", operation),
			slog.String("trigger_id", triggerID),
			slog.String("error", err.Error()),
		)
	}

	slog.ErrorContext(ctx, "all retries exhausted for cloud tasks call",
		slog.String("operation", operation),
		slog.String("trigger_id", triggerID),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to %s cloud task after %d retries: %w", operation, s.maxRetries, lastErr)
}

func (s *CloudTasksSink) Close() error {
	return s.client.Close()
}
