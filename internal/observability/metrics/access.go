package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	accessMeterName = "access.poller"
)

type AccessMetrics struct {
	checks        metric.Int64Counter
	checkDuration metric.Float64Histogram
	skippedTicks  metric.Int64Counter
	revocations   metric.Int64Counter
}

func NewAccessMetrics() (*AccessMetrics, error) {
	meter := otel.Meter(accessMeterName)

	checks, err := meter.Int64Counter(
		"access_checks_total",
		metric.WithDescription("Total number of access checks by outcome"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkDuration, err := meter.Float64Histogram(
		"access_check_duration_seconds",
		metric.WithDescription("Access check duration including the backend query"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	skippedTicks, err := meter.Int64Counter(
		"access_poll_ticks_skipped_total",
		metric.WithDescription("Ticks skipped because a check was still in flight"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	revocations, err := meter.Int64Counter(
		"access_revocations_total",
		metric.WithDescription("Total number of revocation side effects fired"),
		metric.WithUnit("{revocation}"),
	)
	if err != nil {
		return nil, err
	}

	return &AccessMetrics{
		checks:        checks,
		checkDuration: checkDuration,
		skippedTicks:  skippedTicks,
		revocations:   revocations,
	}, nil
}

func (m *AccessMetrics) RecordCheck(ctx context.Context, outcome string, duration time.Duration) {
	m.checks.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.checkDuration.Record(ctx, duration.Seconds())
}

func (m *AccessMetrics) RecordSkippedTick(ctx context.Context) {
	m.skippedTicks.Add(ctx, 1)
}

func (m *AccessMetrics) RecordRevocation(ctx context.Context, outcome string) {
	m.revocations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
