// Package telemetry wires OpenTelemetry tracing, metrics and log export,
// plus Pyroscope continuous profiling. Every provider degrades to a no-op
// when its feature is disabled.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// ServiceVersion is reported on every exported resource
const ServiceVersion = "1.0.0"

// shutdownTimeout bounds provider flushes on exit
const shutdownTimeout = 10 * time.Second

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func shutdownContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, shutdownTimeout)
}

// TracerConfigFrom extracts the tracing settings of the [telemetry] section
func TracerConfigFrom(c config.TelemetryConfig) Config {
	return Config{
		Enabled:           c.Enabled,
		CollectorEndpoint: c.CollectorEndpoint,
		SamplingRatio:     c.SamplingRatio,
		ServiceName:       c.ServiceName,
		Insecure:          c.Insecure,
	}
}

// MetricsConfigFrom extracts the metrics settings of the [telemetry] section
func MetricsConfigFrom(c config.TelemetryConfig) MetricsConfig {
	return MetricsConfig{
		Enabled:           c.MetricsEnabled,
		CollectorEndpoint: c.CollectorEndpoint,
		ExportInterval:    c.MetricsExportInterval,
		ServiceName:       c.ServiceName,
		Insecure:          c.Insecure,
	}
}

// LogsConfigFrom extracts the log export settings of the [telemetry] section
func LogsConfigFrom(c config.TelemetryConfig) LogsConfig {
	return LogsConfig{
		Enabled:           c.LogsEnabled,
		CollectorEndpoint: c.CollectorEndpoint,
		ServiceName:       c.ServiceName,
		Insecure:          c.Insecure,
		ExportInterval:    c.LogsExportInterval,
	}
}

// DBTracingConfigFrom extracts the database tracing settings of the [telemetry] section
func DBTracingConfigFrom(c config.TelemetryConfig, driver string) DBTracingConfig {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = c.Enabled && c.DBTraceEnabled
	cfg.LogFullSQL = c.DBLogFullSQL
	if c.DBSlowQueryThresh > 0 {
		cfg.SlowQueryThresh = c.DBSlowQueryThresh
	}
	if driver == config.DriverSQLite {
		cfg.DBSystem = "sqlite"
	}
	return cfg
}

// ProfilerConfigFrom extracts the profiling settings of the [telemetry] section.
// CPU, heap and goroutine profiles are collected when profiling is on.
func ProfilerConfigFrom(c config.TelemetryConfig) ProfilerConfig {
	return ProfilerConfig{
		Enabled:             c.ProfilingEnabled,
		ServerAddress:       c.PyroscopeServerAddress,
		ApplicationName:     c.ServiceName,
		BasicAuthUser:       c.PyroscopeBasicAuthUser,
		BasicAuthPassword:   c.PyroscopeBasicAuthPass,
		ProfileCPU:          true,
		ProfileAllocSpace:   true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
		SpanProfilesEnabled: c.SpanProfilesEnabled,
	}
}
