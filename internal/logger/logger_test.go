package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time                         { return c.t }
func (c fixedClock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

func TestLocalTimeEncoder(t *testing.T) {
	var buf bytes.Buffer

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = LocalTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(&buf), zap.InfoLevel)

	at := time.Date(2026, 3, 1, 20, 15, 0, 0, time.UTC)
	zap.New(core, zap.WithClock(fixedClock{t: at})).Info("toggled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "2026-03-02T02:15:00+06:00", entry["timestamp"])
	assert.Equal(t, "toggled", entry["msg"])
}

func TestNewReplacesGlobals(t *testing.T) {
	for _, env := range []string{"dev", "test", "prod"} {
		logger, sync, err := New(env)
		require.NoError(t, err, env)
		assert.Same(t, logger, zap.L())
		sync()
	}
}
