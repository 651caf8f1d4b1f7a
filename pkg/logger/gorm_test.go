package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(slowSeconds float64, level string) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), slowSeconds, level), logs
}

func query(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestNewGormLogger_Levels(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"info":   gormlogger.Info,
		"warn":   gormlogger.Warn,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
		"bogus":  gormlogger.Warn,
	}
	for in, want := range tests {
		l, _ := newObservedGormLogger(0, in)
		assert.Equal(t, want, l.level, in)
	}
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")

	t.Run("failure carries request id", func(t *testing.T) {
		l, logs := newObservedGormLogger(0, "error")
		l.Trace(ctx, time.Now(), query("INSERT INTO users"), errors.New("disk full"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "store query failed", entry.Message)
		assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
		assert.Equal(t, "disk full", entry.ContextMap()["error"])
	})

	t.Run("record not found is not a failure", func(t *testing.T) {
		l, logs := newObservedGormLogger(0, "warn")
		l.Trace(ctx, time.Now(), query("SELECT * FROM users"), gorm.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, logs := newObservedGormLogger(0.01, "warn")
		l.Trace(ctx, time.Now().Add(-time.Second), query("SELECT 1"), nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
		assert.Equal(t, "slow store query", logs.All()[0].Message)
	})

	t.Run("debug logs every query truncated", func(t *testing.T) {
		l, logs := newObservedGormLogger(0, "debug")
		l.Trace(ctx, time.Now(), query(strings.Repeat("x", 2*maxSQLLength)), nil)

		require.Equal(t, 1, logs.Len())
		sql := logs.All()[0].ContextMap()["sql"].(string)
		assert.Len(t, sql, maxSQLLength+3)
	})

	t.Run("silent", func(t *testing.T) {
		l, logs := newObservedGormLogger(0, "silent")
		l.Trace(ctx, time.Now(), query("SELECT 1"), errors.New("boom"))
		assert.Equal(t, 0, logs.Len())
	})
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	l, logs := newObservedGormLogger(0, "error")
	quiet := l.LogMode(gormlogger.Silent)

	quiet.Error(context.Background(), "dropped %d", 1)
	l.Error(context.Background(), "kept %d", 2)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept 2", logs.All()[0].Message)
}
