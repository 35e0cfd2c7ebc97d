package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reminderMeterName = "reminder.service"
)

type ReminderMetrics struct {
	togglesProcessed   metric.Int64Counter
	dailyTipsApplied   metric.Int64Counter
	sinkCallDuration   metric.Float64Histogram
	sinkCallFailures   metric.Int64Counter
	remindersDelivered metric.Int64Counter
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	meter := otel.Meter(reminderMeterName)

	togglesProcessed, err := meter.Int64Counter(
		"reminder_toggles_total",
		metric.WithDescription("Total number of tier toggles by outcome"),
		metric.WithUnit("{toggle}"),
	)
	if err != nil {
		return nil, err
	}

	dailyTipsApplied, err := meter.Int64Counter(
		"reminder_daily_tips_total",
		metric.WithDescription("Total number of daily tip scheduling decisions by outcome"),
		metric.WithUnit("{tip}"),
	)
	if err != nil {
		return nil, err
	}

	sinkCallDuration, err := meter.Float64Histogram(
		"reminder_sink_call_duration_seconds",
		metric.WithDescription("Latency of notification sink calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	sinkCallFailures, err := meter.Int64Counter(
		"reminder_sink_call_failures_total",
		metric.WithDescription("Total number of failed notification sink calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	remindersDelivered, err := meter.Int64Counter(
		"reminder_deliveries_total",
		metric.WithDescription("Total number of fired triggers handed to the push sender"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		togglesProcessed:   togglesProcessed,
		dailyTipsApplied:   dailyTipsApplied,
		sinkCallDuration:   sinkCallDuration,
		sinkCallFailures:   sinkCallFailures,
		remindersDelivered: remindersDelivered,
	}, nil
}

func (m *ReminderMetrics) RecordToggle(ctx context.Context, tier, operation, outcome string) {
	m.togglesProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordDailyTip(ctx context.Context, outcome string) {
	m.dailyTipsApplied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordSinkCall(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.sinkCallDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.sinkCallFailures.Add(ctx, 1, attrs)
	}
}

func (m *ReminderMetrics) RecordDelivery(ctx context.Context, kind, outcome string) {
	m.remindersDelivered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}
