package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize_SetsLevel(t *testing.T) {
	tests := []struct {
		level    string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{level: "debug", enabled: zap.DebugLevel, disabled: zap.DebugLevel - 1},
		{level: "info", enabled: zap.InfoLevel, disabled: zap.DebugLevel},
		{level: "warn", enabled: zap.WarnLevel, disabled: zap.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			prev := Log
			t.Cleanup(func() { Log = prev })

			require.NoError(t, Initialize(tt.level))
			assert.NotSame(t, prev, Log)
			assert.True(t, Log.Core().Enabled(tt.enabled))
			assert.False(t, Log.Core().Enabled(tt.disabled))
		})
	}
}

func TestInitialize_InvalidLevelKeepsLogger(t *testing.T) {
	prev := zap.NewNop()
	Log = prev
	t.Cleanup(func() { Log = zap.NewNop() })

	assert.Error(t, Initialize("notalevel"))
	assert.Same(t, prev, Log)
}
