package common

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, SetupLogger(slog.LevelInfo, "text"))
	})

	require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
	require.NoError(t, SetupLogger(slog.LevelWarn, "text"))
	require.NoError(t, SetupLogger(slog.LevelError, "unknown"))
}

func TestLogHelpersAcceptNilFields(t *testing.T) {
	LogError(errors.New("boom"), "operation failed", nil)
	LogInfo("operation finished", Fields{"attempt": 1})
}
