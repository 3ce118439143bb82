package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm output to slog.
type GormLogger struct {
	logSQL             bool
	slowQueryThreshold time.Duration
}

// NewGormLogger creates a gorm logger backed by the default slog logger.
func NewGormLogger(logSQL bool, slowQueryThreshold time.Duration) *GormLogger {
	return &GormLogger{logSQL: logSQL, slowQueryThreshold: slowQueryThreshold}
}

// LogMode is a no-op; verbosity is controlled by slog.
func (l *GormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	slog.InfoContext(ctx, msg, "data", data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	slog.WarnContext(ctx, msg, "data", data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	slog.ErrorContext(ctx, msg, "data", data)
}

// Trace logs failed and slow statements. Record-not-found is expected and
// logged only when SQL logging is on.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		sql, _ := fc()
		slog.DebugContext(ctx, "SQL constraint violation", "duration", elapsed, "sql", sql, "error", err)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		slog.ErrorContext(ctx, "SQL execution failed", "duration", elapsed, "rows", rows, "sql", sql, "error", err)
	case elapsed > l.slowQueryThreshold:
		sql, rows := fc()
		slog.WarnContext(ctx, "slow query", "duration", elapsed, "rows", rows, "sql", sql)
	case l.logSQL:
		sql, rows := fc()
		slog.DebugContext(ctx, "SQL executed", "duration", elapsed, "rows", rows, "sql", sql)
	}
}
