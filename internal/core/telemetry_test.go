// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/angelamos/sitehub/internal/config"
)

func rootParams(lowHalf byte) sdktrace.SamplingParameters {
	var id trace.TraceID
	id[0] = 0x01
	for i := 8; i < 16; i++ {
		id[i] = lowHalf
	}
	return sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       id,
		Name:          "root",
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name        string
		rate        float64
		environment string
		lowHalf     byte
		want        sdktrace.SamplingDecision
	}{
		{"development keeps everything", 0.01, "development", 0xff, sdktrace.RecordAndSample},
		{"full rate keeps everything", 1, "production", 0xff, sdktrace.RecordAndSample},
		{"ratio drops high ids", 0.5, "production", 0xff, sdktrace.Drop},
		{"ratio keeps low ids", 0.5, "production", 0x00, sdktrace.RecordAndSample},
		{"zero rate falls back to default", 0, "staging", 0xff, sdktrace.Drop},
		{"negative rate falls back to default", -1, "staging", 0x00, sdktrace.RecordAndSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSampler(tt.rate, tt.environment)
			got := s.ShouldSample(rootParams(tt.lowHalf))
			assert.Equal(t, tt.want, got.Decision)
		})
	}
}

func TestNewTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(
		context.Background(),
		config.OtelConfig{Enabled: false, Endpoint: "collector:4317"},
		config.AppConfig{Environment: "development"},
	)
	require.NoError(t, err)

	assert.False(t, tel.Enabled())
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	var nilTel *Telemetry
	assert.False(t, nilTel.Enabled())
	assert.NoError(t, nilTel.Shutdown(context.Background()))
}

func TestStartSpanRecordsOnInstalledProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := newTracerProvider(
		recorder,
		resource.Empty(),
		newSampler(0, "development"),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "content.rollback")
	traceID := TraceIDFromContext(ctx)
	SetSpanError(ctx, errors.New("version missing"))
	SetSpanError(ctx, nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "content.rollback", ended[0].Name())
	assert.Equal(t, traceID, ended[0].SpanContext().TraceID().String())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Events(), 1)
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
