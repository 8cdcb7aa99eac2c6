package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// NewTracerProvider builds an otel TracerProvider with no exporter
// attached — spans are recorded and sampled but never shipped anywhere,
// since the core has no network egress of its own. A collaborator that
// wants spans exported registers its own SpanProcessor on the returned
// provider before a run starts.
func NewTracerProvider() *trace.TracerProvider {
	return trace.NewTracerProvider(trace.WithSampler(trace.AlwaysSample()))
}

// Tracer returns the "loganalyzer" tracer from provider, or the global
// tracer if provider is nil.
func Tracer(provider *trace.TracerProvider) oteltrace.Tracer {
	if provider == nil {
		return otel.Tracer("loganalyzer")
	}
	return provider.Tracer("loganalyzer")
}

// StartStage starts a span named for one analysis stage ("parse", "diff",
// "perf", "errors", "trace", "search", "extract", "profile").
func StartStage(ctx context.Context, tracer oteltrace.Tracer, stage string) (context.Context, oteltrace.Span) {
	return tracer.Start(ctx, stage)
}
