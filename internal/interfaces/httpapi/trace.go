package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("court-spotter/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for the job and health handlers only.
// Requests that otelhttp did not trace, such as /healthz polls from the
// scheduler host, get the shared no-op span so they never start root traces.
// Response helpers and middleware share the no-op span as well, keeping a
// triggered sync job to one handler span above the usecase spans.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}
