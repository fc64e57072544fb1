package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("court-spotter/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan starts a span under an existing trace. Scheduled sync
// cycles and CLI runs carry no parent span unless uptrace is configured,
// and they then run untraced instead of emitting one root span per club.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name)
}
