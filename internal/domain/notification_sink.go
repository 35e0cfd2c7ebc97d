package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=notification_sink.go -destination=notification_sink_mock.go -package=domain

// NotificationSink is the external delivery mechanism that fires payloads at a given time.
type NotificationSink interface {
	ScheduleAt(ctx context.Context, at time.Time, payload TriggerPayload) (string, error)
	Cancel(ctx context.Context, triggerID string) error
	ListScheduled(ctx context.Context) ([]ScheduledTrigger, error)
}
