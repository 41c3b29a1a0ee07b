package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/amoylab/lokal/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), &config.TracingConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_HTTPExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := &config.TracingConfig{
		Enabled:     true,
		ServiceName: "lokal-test",
		Protocol:    "http",
		Insecure:    true,
		SamplerRate: 5,
		Headers:     map[string]string{"x-key": "v"},
	}
	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestClampRate(t *testing.T) {
	assert.Equal(t, 0.0, clampRate(-1))
	assert.Equal(t, 1.0, clampRate(3))
	assert.Equal(t, 0.25, clampRate(0.25))
}

func TestSpanScope(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	scope := Tracer("lokal/test").Start(context.Background(), "ai.reverse_geocode")
	scope.WithAttrs(attribute.String("outcome", "failed")).Fail(errors.New("boom")).End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ai.reverse_geocode", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("outcome", "failed"))

	var nilScope *SpanScope
	assert.NotPanics(t, func() { nilScope.WithAttrs().Fail(errors.New("x")).End() })
}
