package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSetup_Disabled(t *testing.T) {
	providers, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, providers.Tracer.IsEnabled())
	assert.False(t, providers.Meter.IsEnabled())
	assert.False(t, providers.Logs.IsEnabled())
	assert.NotNil(t, providers.Meter.Meter("test"))
	assert.NotNil(t, providers.Tracer.Tracer("test"))

	core := providers.Logs.Core(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

// recordSpans installs an in-memory span recorder as the global provider
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartServiceSpan(context.Background(), "upload", "store")
	RecordError(span, errors.New("disk full"))
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "upload.store", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
}

func TestRegisterDBTracing(t *testing.T) {
	recorder := recordSpans(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{DBSystem: "sqlite"}))

	type widget struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&widget{}))
	require.NoError(t, db.WithContext(context.Background()).Create(&widget{Name: "a"}).Error)

	var found []widget
	require.NoError(t, db.WithContext(context.Background()).Find(&found).Error)

	var tables []string
	for _, s := range recorder.Ended() {
		for _, kv := range s.Attributes() {
			if kv.Key == "db.sql.table" {
				tables = append(tables, kv.Value.AsString())
			}
		}
	}
	assert.Contains(t, tables, "widgets")
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordUpload(ctx, "banners", 2048)
	m.RecordUpload(ctx, "banners", 1024)
	m.RecordUploadRejected(ctx, "FILE_TOO_LARGE")
	m.RecordLogin(ctx, "admin", true)

	var nilMetrics *BusinessMetrics
	nilMetrics.RecordUpload(ctx, "banners", 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if data, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[metric.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), sums["shop.uploads.stored"])
	assert.Equal(t, int64(3072), sums["shop.uploads.bytes"])
	assert.Equal(t, int64(1), sums["shop.uploads.rejected"])
	assert.Equal(t, int64(1), sums["shop.auth.logins"])
}
