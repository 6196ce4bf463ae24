package log_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/log"
)

func TestNewRootLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := log.NewRootLogger("logfmt", "info", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("group selected", zap.Uint64("request_id", 7))
	require.NoError(t, logger.Sync())

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "request_id=7")
	require.Contains(t, buf.String(), "lvl=info")

	_, err = log.NewRootLogger("xml", "info", &buf)
	require.Error(t, err)
	_, err = log.NewRootLogger("json", "verbose", &buf)
	require.Error(t, err)
}

func TestNewRootLoggerWithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "beacond.log")
	logger, err := log.NewRootLoggerWithFile(logPath, "json", "debug")
	require.NoError(t, err)

	logger.Debug("ticket retained")
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(content), "ticket retained")
}
