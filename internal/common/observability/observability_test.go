package observability

import (
	"context"
	"testing"
	"time"

	"visa-eligibility-workers/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestObservability_RecordsWithoutPanicking(t *testing.T) {
	obs := New("visa-eligibility-workers-test")
	t.Cleanup(obs.Shutdown)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "evaluate-visa-eligibility", "completed")
		obs.RecordJobDuration(ctx, "evaluate-visa-eligibility", 15*time.Millisecond, "completed")
	})

	var empty Observability
	assert.NotPanics(t, func() {
		empty.RecordJobProcessed(ctx, "x", "failed")
		empty.Shutdown()
	})
}

func TestSetupTracing_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := SetupTracing(context.Background(), config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestSetupTracing_RequiresEndpoint(t *testing.T) {
	_, err := SetupTracing(context.Background(), config.TracingConfig{Enabled: true})
	assert.ErrorContains(t, err, "endpoint")
}

func TestSetupTracing_InstallsProvider(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	shutdown, err := SetupTracing(context.Background(), config.TracingConfig{
		Enabled:        true,
		ServiceName:    "visa-eligibility-workers",
		JaegerEndpoint: "http://127.0.0.1:14268/api/traces",
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()))
}
