package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("warn"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}

func traceOnce(l gormlogger.Interface, ctx context.Context, elapsed time.Duration, err error) {
	l.Trace(ctx, time.Now().Add(-elapsed), func() (string, int64) {
		return "SELECT * FROM suppliers WHERE code = 'SUP-1'", 1
	}, err)
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-7")

	t.Run("error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)
		traceOnce(l, ctx, time.Millisecond, errors.New("deadlock detected"))

		entries := logs.FilterMessage("SQL error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "deadlock detected", entries[0].ContextMap()["error"])
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)
		traceOnce(l, ctx, time.Millisecond, gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
		traceOnce(l, ctx, time.Second, nil)
		traceOnce(l, ctx, time.Millisecond, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "Slow SQL", logs.All()[0].Message)
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})

	t.Run("info logs every statement at debug", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn).LogMode(gormlogger.Info)
		traceOnce(l, ctx, time.Millisecond, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
		assert.EqualValues(t, 1, logs.All()[0].ContextMap()["rows"])
	})

	t.Run("silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Silent)
		traceOnce(l, ctx, time.Second, errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}

type loggedRow struct {
	ID   uint `gorm:"primaryKey"`
	Code string
}

func TestGormLoggerParamsFilter(t *testing.T) {
	for _, full := range []bool{false, true} {
		core, logs := observer.New(zapcore.DebugLevel)
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: NewGormLogger(zap.New(core), gormlogger.Info, WithFullSQL(full)),
		})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&loggedRow{}))

		var row loggedRow
		_ = db.Where("code = ?", "SUP-SECRET").First(&row).Error

		var statement string
		for _, e := range logs.FilterMessage("SQL").All() {
			if sql, _ := e.ContextMap()["sql"].(string); sql != "" {
				statement = sql
			}
		}
		require.NotEmpty(t, statement)
		if full {
			assert.Contains(t, statement, "SUP-SECRET")
		} else {
			assert.NotContains(t, statement, "SUP-SECRET")
		}

		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	}
}
