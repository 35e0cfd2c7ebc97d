package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const accessTracerName = "github.com/KasumiMercury/primind-appointment-reminder/internal/service/access"

func AccessTracer() trace.Tracer {
	return otel.Tracer(accessTracerName)
}

func StartAccessCheckSpan(ctx context.Context, subjectID string) (context.Context, trace.Span) {
	return AccessTracer().Start(ctx, "access.check",
		trace.WithAttributes(
			attribute.String("subject.id", subjectID),
		),
	)
}

func RecordAccessCheckResult(span trace.Span, hasAccess, privileged, revoked bool, err error) {
	span.SetAttributes(
		attribute.Bool("access.has_access", hasAccess),
		attribute.Bool("access.privileged", privileged),
		attribute.Bool("access.revoked", revoked),
	)
	RecordError(span, err)
}
