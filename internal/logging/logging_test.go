package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level, "json")
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}

	logger, err := New("debug", "json")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("warn", "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		_, err := New("info", format)
		require.NoError(t, err, format)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json")
	require.Error(t, err)

	_, err = New("info", "xml")
	require.Error(t, err)
}

func TestSync(t *testing.T) {
	logger, err := New("info", "json")
	require.NoError(t, err)
	logger.Info("hello")
	assert.NoError(t, Sync(logger))
}
