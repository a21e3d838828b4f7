package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

type SlogGormLogger struct {
	LogLevel      logger.LogLevel
	Dialect       string
	SlowThreshold time.Duration
}

func NewGormLogger(dialect string) *SlogGormLogger {
	return &SlogGormLogger{
		LogLevel:      logger.Warn,
		Dialect:       dialect,
		SlowThreshold: 200 * time.Millisecond,
	}
}

func (l *SlogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	l.LogLevel = level
	return l
}

func (l *SlogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		slog.InfoContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		slog.WarnContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		slog.ErrorContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	operation := "Query"
	if i := strings.IndexByte(sql, ' '); i > 0 {
		operation = strings.ToUpper(sql[:i])
	}
	msg := l.Dialect + " " + operation

	fields := []any{
		slog.String("sql", sql),
		slog.Duration("latency", elapsed),
		slog.Int64("rows", rows),
	}

	if err != nil && !errors.Is(err, logger.ErrRecordNotFound) {
		slog.ErrorContext(ctx, msg+" Error", append(fields, slog.Any("err", err))...)
	} else if l.SlowThreshold > 0 && elapsed > l.SlowThreshold {
		slog.WarnContext(ctx, msg+" Slow", fields...)
	} else if l.LogLevel >= logger.Info {
		slog.InfoContext(ctx, msg, fields...)
	}
}

// ParamsFilter 日志中不展开 SQL 参数（验证码等敏感值）
func (l *SlogGormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}
