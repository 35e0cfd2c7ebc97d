package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/KasumiMercury/primind-appointment-reminder/internal/service/reminder"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartToggleSpan(ctx context.Context, appointmentKey, tier string, enabled bool) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.toggle_tier",
		trace.WithAttributes(
			attribute.String("appointment.key", appointmentKey),
			attribute.String("reminder.tier", tier),
			attribute.Bool("reminder.enabled", enabled),
		),
	)
}

func StartDailyTipSpan(ctx context.Context, recipient string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.daily_tip",
		trace.WithAttributes(
			attribute.String("recipient", recipient),
		),
	)
}

func StartSinkSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.sink."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordToggleResult(span trace.Span, outcome, reason string, scheduledAt time.Time, err error) {
	span.SetAttributes(
		attribute.String("reminder.outcome", outcome),
	)
	if reason != "" {
		span.SetAttributes(attribute.String("reminder.skip_reason", reason))
	}
	if !scheduledAt.IsZero() {
		span.SetAttributes(attribute.String("reminder.scheduled_at", scheduledAt.Format(time.RFC3339)))
	}
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the span context of ctx onto an outgoing request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
