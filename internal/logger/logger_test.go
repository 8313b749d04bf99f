package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	require.NotNil(t, Logger)
	// Must not panic before Initialize.
	Logger.Infow("ignored", FieldCount, 1)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev; JSONOutput = false }()

	require.NoError(t, Initialize(true, "warn"))
	assert.True(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Initialize(false, "debug"))
	assert.False(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, Initialize(false, "loud"))
}

func TestNamedAddsComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := Named(zap.New(core).Sugar(), "sqlite")
	l.Infow("stored", FieldEntityID, "Q148")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sqlite", entries[0].LoggerName)
	assert.Equal(t, "sqlite", entries[0].ContextMap()[FieldComponent])
	assert.Equal(t, "Q148", entries[0].ContextMap()[FieldEntityID])
}
