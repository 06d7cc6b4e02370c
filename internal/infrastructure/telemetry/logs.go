package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerName is the instrumentation scope of exported log records
const LoggerName = "github.com/Honest-88/pos-sample"

// defaultLogExportInterval keeps exported logs close to the traces of the same request
const defaultLogExportInterval = 5 * time.Second

// LogsConfig holds log export configuration
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
	ExportInterval    time.Duration
}

// LoggerProvider exports zap entries as OTLP log records.
// A disabled provider holds no SDK provider and hands out no-op cores.
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	log      *zap.Logger
}

// NewLoggerProvider creates the OTLP gRPC log provider and installs it globally
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, log *zap.Logger) (*LoggerProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lp := &LoggerProvider{log: log}
	if !cfg.Enabled {
		return lp, nil
	}

	processor, err := newLogProcessor(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	lp.provider = sdklog.NewLoggerProvider(sdklog.WithResource(res), sdklog.WithProcessor(processor))
	global.SetLoggerProvider(lp.provider)

	log.Info("OTLP log export enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("service_name", cfg.ServiceName),
	)
	return lp, nil
}

func newLogProcessor(ctx context.Context, cfg LogsConfig) (sdklog.Processor, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultLogExportInterval
	}
	return sdklog.NewBatchProcessor(exporter, sdklog.WithExportInterval(interval)), nil
}

// Shutdown flushes pending records and stops the exporter
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.IsEnabled() {
		return nil
	}

	shutdownCtx, cancel := shutdownContext(ctx)
	defer cancel()
	if err := lp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

// IsEnabled returns whether log export is enabled
func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.provider != nil
}

// ZapCore returns a core exporting entries at or above level, for logger.New's extra cores.
// It is a no-op core when export is disabled.
func (lp *LoggerProvider) ZapCore(level zapcore.Level) zapcore.Core {
	if !lp.IsEnabled() {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(LoggerName, otelzap.WithLoggerProvider(lp.provider))
	return atLeast(core, level, lp.log)
}

// atLeast raises core's minimum level; a core that refuses the raise is exported unfiltered.
func atLeast(core zapcore.Core, level zapcore.Level, log *zap.Logger) zapcore.Core {
	filtered, err := zapcore.NewIncreaseLevelCore(core, level)
	if err != nil {
		log.Warn("Exporting logs without a level filter", zap.Error(err))
		return core
	}
	return filtered
}
