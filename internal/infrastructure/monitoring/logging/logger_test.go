package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "f", Value: 1.5}, Float64("f", 1.5))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_EmitsFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("graph built", Int("edges", 42), Float64("duration_s", 1.25))

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "graph built", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 42, fields["edges"])
	assert.EqualValues(t, 1.25, fields["duration_s"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).Named("pipeline").With(String("run_id", "r1"))

	log.Warn("empty community set")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0].LoggerName)
	assert.Equal(t, "r1", entries[0].ContextMap()["run_id"])
}

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNopLoggerAndDefault(t *testing.T) {
	nop := NewNopLogger()
	nop.Info("discarded")

	SetDefault(nop)
	assert.Equal(t, nop, Default())
	SetDefault(nil) // ignored
	assert.Equal(t, nop, Default())
}
