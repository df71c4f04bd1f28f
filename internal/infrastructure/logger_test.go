package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmiscli/internal/config"
)

func lastEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", slog.String("key", "value"))
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	entry := lastEntry(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-123")
	WithComponent(logger, "cleaner").InfoContext(ctx, "with run")

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, "cleaner", entry["component"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		logged  func(*slog.Logger)
		visible bool
	}{
		{"debug", func(l *slog.Logger) { l.Debug("x") }, true},
		{"info", func(l *slog.Logger) { l.Debug("x") }, false},
		{"warn", func(l *slog.Logger) { l.Info("x") }, false},
		{"warning", func(l *slog.Logger) { l.Warn("x") }, true},
		{"error", func(l *slog.Logger) { l.Error("x") }, true},
		{"bogus", func(l *slog.Logger) { l.Info("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level}, &buf)
			require.NoError(t, err)
			tt.logged(logger)
			assert.Equal(t, tt.visible, buf.Len() > 0)
		})
	}
}

func TestBothOutputs(t *testing.T) {
	defer CloseLogFile()

	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "both.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &buf)
	require.NoError(t, err)

	logger.Warn("dual")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "dual", lastEntry(t, content)["msg"])
	assert.Equal(t, "dual", lastEntry(t, buf.Bytes())["msg"])
}

func TestEnsureRunID(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	id := GetRunID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)), "existing id is kept")
}
