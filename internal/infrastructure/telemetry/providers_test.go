package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, nil)
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.False(t, tp.IsSpanProfilesEnabled())
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{2, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{0, sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, samplerFor(tt.ratio).Description(), "ratio %v", tt.ratio)
	}
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.New(core))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.Equal(t, 1, logs.FilterMessage("Metrics disabled, using no-op meter provider").Len())

	// a no-op meter still builds working instruments
	m, err := NewSalesMetrics(mp.Meter(MeterName), nil)
	require.NoError(t, err)
	m.ObserveSettlement(context.Background(), time.Millisecond, nil)
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, nil)
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))

	var nilProvider *LoggerProvider
	assert.False(t, nilProvider.ZapCore(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
}

func TestAtLeast(t *testing.T) {
	t.Run("drops entries below the level", func(t *testing.T) {
		inner, logs := observer.New(zapcore.DebugLevel)
		core := atLeast(inner, zapcore.WarnLevel, nil)
		log := zap.New(core).With(zap.String("component", "settlement"))

		log.Info("dropped")
		log.Warn("kept")
		log.Error("also kept")

		assert.False(t, core.Enabled(zapcore.InfoLevel))
		assert.True(t, core.Enabled(zapcore.ErrorLevel))
		require.Equal(t, 2, logs.Len())
		assert.Equal(t, "kept", logs.All()[0].Message)
		assert.Equal(t, "settlement", logs.All()[0].ContextMap()["component"])
	})

	t.Run("keeps an already stricter core", func(t *testing.T) {
		inner, logs := observer.New(zapcore.ErrorLevel)
		warnings, _ := observer.New(zapcore.DebugLevel)
		core := atLeast(inner, zapcore.InfoLevel, zap.New(warnings))

		zap.New(core).Error("kept")

		assert.False(t, core.Enabled(zapcore.WarnLevel))
		assert.Equal(t, 1, logs.Len())
	})
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{Enabled: false}, nil)
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires server address", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "pos"}, nil)
		assert.ErrorContains(t, err, "server address")
	})

	t.Run("requires application name", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, nil)
		assert.ErrorContains(t, err, "application name")
	})
}

func TestProfileTypes(t *testing.T) {
	p := &Profiler{config: ProfilerConfigFrom(config.TelemetryConfig{ProfilingEnabled: true})}
	assert.Len(t, p.profileTypes(), 4)

	p = &Profiler{config: ProfilerConfig{ProfileCPU: true}}
	assert.Len(t, p.profileTypes(), 1)
}

func TestConfigConverters(t *testing.T) {
	c := config.TelemetryConfig{
		Enabled:                true,
		CollectorEndpoint:      "otel:4317",
		SamplingRatio:          0.5,
		ServiceName:            "pos-backend",
		Insecure:               true,
		MetricsEnabled:         true,
		MetricsExportInterval:  15 * time.Second,
		LogsEnabled:            false,
		LogsExportInterval:     2 * time.Second,
		DBTraceEnabled:         true,
		DBLogFullSQL:           true,
		PyroscopeServerAddress: "http://pyroscope:4040",
		SpanProfilesEnabled:    true,
	}

	tracer := TracerConfigFrom(c)
	assert.Equal(t, Config{Enabled: true, CollectorEndpoint: "otel:4317", SamplingRatio: 0.5, ServiceName: "pos-backend", Insecure: true}, tracer)

	metrics := MetricsConfigFrom(c)
	assert.True(t, metrics.Enabled)
	assert.Equal(t, 15*time.Second, metrics.ExportInterval)

	assert.False(t, LogsConfigFrom(c).Enabled)
	assert.Equal(t, 2*time.Second, LogsConfigFrom(c).ExportInterval)

	profiler := ProfilerConfigFrom(c)
	assert.Equal(t, "pos-backend", profiler.ApplicationName)
	assert.Equal(t, "http://pyroscope:4040", profiler.ServerAddress)
	assert.True(t, profiler.SpanProfilesEnabled)
}

func TestDBTracingConfigFrom(t *testing.T) {
	c := config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}

	pg := DBTracingConfigFrom(c, config.DriverPostgres)
	assert.True(t, pg.Enabled)
	assert.Equal(t, "postgresql", pg.DBSystem)
	assert.Equal(t, 200*time.Millisecond, pg.SlowQueryThresh)

	c.DBSlowQueryThresh = time.Second
	lite := DBTracingConfigFrom(c, config.DriverSQLite)
	assert.Equal(t, "sqlite", lite.DBSystem)
	assert.Equal(t, time.Second, lite.SlowQueryThresh)

	c.Enabled = false
	assert.False(t, DBTracingConfigFrom(c, config.DriverPostgres).Enabled)
}
