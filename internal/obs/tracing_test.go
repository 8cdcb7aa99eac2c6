package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStartStageCreatesAndEndsSpanWithoutLeaking(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := NewTracerProvider()
	defer func() { require.NoError(t, provider.Shutdown(context.Background())) }()

	tracer := Tracer(provider)
	ctx, span := StartStage(context.Background(), tracer, "parse")
	require.NotNil(t, ctx)
	require.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestTracerFallsBackToGlobalWhenProviderNil(t *testing.T) {
	tracer := Tracer(nil)
	require.NotNil(t, tracer)
}
