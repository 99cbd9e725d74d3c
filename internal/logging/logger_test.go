package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.Equal(t, Logger, zap.L(), "named child loggers must share the configured core")
}

func TestInitLogger_WithLogLevel(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("LOG_LEVEL")

	err := InitLogger()
	require.NoError(t, err)
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitLogger_WithInvalidLogLevel(t *testing.T) {
	// Invalid level falls back to the config default
	os.Setenv("LOG_LEVEL", "invalid")
	defer os.Unsetenv("LOG_LEVEL")

	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitLogger_DevelopmentEnvironment(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	defer os.Unsetenv("ENVIRONMENT")

	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel), "development config defaults to debug")
}

func TestInitLogger_MultipleInit(t *testing.T) {
	require.NoError(t, InitLogger())
	require.NoError(t, InitLogger())
	assert.NotNil(t, Logger)
}
