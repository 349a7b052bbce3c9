package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerScope = "tournament-sync/internal/usecase"

// startUsecaseSpan only nests under an existing span; calls made outside a
// request or job get the context back unchanged.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return otel.Tracer(tracerScope).Start(ctx, name)
}

// startJobSpan opens a root span for a background job attempt, which has no
// request span to hang from.
func startJobSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerScope).Start(ctx, name, trace.WithNewRoot(), trace.WithSpanKind(trace.SpanKindConsumer))
}
