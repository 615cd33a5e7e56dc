/*
Package logger 提供 GORM 到 Zap 的日志适配。

SQL 日志带上 request_id 和 trace_id，和 HTTP 访问日志可以互相关联。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzeria/infrastructure/persistence"
	"pizzeria/pkg/tracing"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold 未配置时的慢查询阈值
const DefaultSlowThreshold = 200 * time.Millisecond

// GormLoggerConfig 来自 database 配置段
type GormLoggerConfig struct {
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
	// IgnoreRecordNotFound 为 true 时 ErrRecordNotFound 只在 Debug 级别出现
	IgnoreRecordNotFound bool
}

// GormLoggerAdapter 实现 gorm logger.Interface
type GormLoggerAdapter struct {
	cfg GormLoggerConfig
}

func NewGormLoggerAdapter(cfg GormLoggerConfig) *GormLoggerAdapter {
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = DefaultSlowThreshold
	}
	return &GormLoggerAdapter{cfg: cfg}
}

func (l *GormLoggerAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cfg := l.cfg
	cfg.LogLevel = level
	return &GormLoggerAdapter{cfg: cfg}
}

// sqlLogger 每次取当前的全局 logger，测试里替换 logger 后也能生效
func (l *GormLoggerAdapter) sqlLogger(ctx context.Context) *zap.Logger {
	base := log
	if base == nil {
		return zap.NewNop()
	}
	base = base.Named("sql")
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		base = base.With(zap.String("request_id", requestID))
	}
	if traceID := tracing.TraceID(ctx); traceID != "" {
		base = base.With(zap.String("trace_id", traceID))
	}
	return base
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.cfg.LogLevel >= gormlogger.Info {
		l.sqlLogger(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.cfg.LogLevel >= gormlogger.Warn {
		l.sqlLogger(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.cfg.LogLevel >= gormlogger.Error {
		l.sqlLogger(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.cfg.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && errors.Is(err, gormlogger.ErrRecordNotFound) && l.cfg.IgnoreRecordNotFound:
		// 仓储层已转换为领域 NotFound
		l.sqlLogger(ctx).Debug("Record not found", fields...)
	case err != nil && l.cfg.LogLevel >= gormlogger.Error:
		l.sqlLogger(ctx).Error("Database operation failed", append(fields, zap.Error(err))...)
	case elapsed > l.cfg.SlowThreshold && l.cfg.LogLevel >= gormlogger.Warn:
		l.sqlLogger(ctx).Warn("Slow SQL query",
			append(fields, zap.Duration("threshold", l.cfg.SlowThreshold))...)
	case l.cfg.LogLevel >= gormlogger.Info:
		l.sqlLogger(ctx).Info("SQL query executed", fields...)
	}
}
