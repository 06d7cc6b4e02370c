package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Defaults applied by NewSQLLogger to zero SQLLogConfig fields
const (
	DefaultSlowThreshold = 200 * time.Millisecond
	DefaultMaxSQLLength  = 2048
)

// SQLLogConfig controls how GORM statements reach zap
type SQLLogConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// MaxSQLLength bounds the logged statement; batch inserts of sale lines get long.
	MaxSQLLength int
	// LogNotFound reports gorm.ErrRecordNotFound as a failure instead of a plain
	// statement. Lookups of missing products and customers are normal traffic.
	LogNotFound bool
}

// SQLLogger implements gormlogger.Interface on top of zap.
// Failed statements log at error, slow ones at warn and the rest at debug.
type SQLLogger struct {
	log *zap.Logger
	cfg SQLLogConfig
}

// NewSQLLogger creates a GORM logger writing to a "gorm" child of log
func NewSQLLogger(log *zap.Logger, cfg SQLLogConfig) *SQLLogger {
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = DefaultSlowThreshold
	}
	if cfg.MaxSQLLength <= 0 {
		cfg.MaxSQLLength = DefaultMaxSQLLength
	}
	return &SQLLogger{log: log.Named("gorm"), cfg: cfg}
}

// LogMode returns a copy logging at level
func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.cfg.Level = level
	return &clone
}

func (l *SQLLogger) Info(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *SQLLogger) Warn(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *SQLLogger) Error(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *SQLLogger) printf(min gormlogger.LogLevel, level zapcore.Level, msg string, data []any) {
	if l.cfg.Level < min {
		return
	}
	l.log.Sugar().Logf(level, msg, data...)
}

// Trace logs one executed statement
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && (l.cfg.LogNotFound || !errors.Is(err, gormlogger.ErrRecordNotFound))
	var msg string
	var level zapcore.Level
	switch {
	case failed && l.cfg.Level >= gormlogger.Error:
		msg, level = "sql failed", zapcore.ErrorLevel
	case elapsed >= l.cfg.SlowThreshold && l.cfg.Level >= gormlogger.Warn:
		msg, level = "sql slow", zapcore.WarnLevel
	case l.cfg.Level >= gormlogger.Info:
		msg, level = "sql", zapcore.DebugLevel
	default:
		return
	}

	sql, rows := fc()
	fields := make([]zap.Field, 0, 7)
	fields = append(fields,
		zap.String("sql", truncateSQL(sql, l.cfg.MaxSQLLength)),
		zap.Duration("elapsed", elapsed),
		zap.String("caller", utils.FileWithLineNum()),
	)
	// GORM reports -1 when the driver has no row count
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if level == zapcore.ErrorLevel {
		fields = append(fields, zap.Error(err))
	}
	if level == zapcore.WarnLevel {
		fields = append(fields, zap.Duration("threshold", l.cfg.SlowThreshold))
	}
	l.log.Log(level, msg, fields...)
}

func truncateSQL(sql string, limit int) string {
	if len(sql) <= limit {
		return sql
	}
	return sql[:limit] + "...(truncated)"
}

// ParseSQLLogLevel maps the application log level onto GORM levels
func ParseSQLLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
