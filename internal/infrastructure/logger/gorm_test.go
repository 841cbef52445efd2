package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 100*time.Millisecond)
	query := func() (string, int64) { return "SELECT 1", 1 }

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")

	gl.Trace(ctx, time.Now(), query, nil)
	gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	gl.Trace(ctx, time.Now(), query, errors.New("syntax error"))
	gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)

	// the not-found lookup is logged as a plain query
	assert.Equal(t, 2, recorded.FilterMessage("SQL").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	errs := recorded.FilterMessage("SQL error").All()
	assert.Len(t, errs, 1)
	assert.Equal(t, "req-9", errs[0].ContextMap()["request_id"])
}

func TestGormLogger_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 0).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("x"))
	gl.Error(context.Background(), "ignored %s", "x")
	assert.Equal(t, 0, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
}
