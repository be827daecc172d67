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

	"springcli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "clean.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", "key", "value")
	logger.Debug("filtered out")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLogger_FileWithoutPath(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file"})
	assert.Error(t, err)
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "json", &slog.HandlerOptions{Level: slog.LevelDebug})

	ctx := WithStage(WithRunID(context.Background(), "run-123"), "merge")
	logger.InfoContext(ctx, "with run")
	logger.Info("without run")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "run-123", first["run_id"])
	assert.Equal(t, "merge", first["stage"])
	assert.NotContains(t, second, "run_id")
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "text", nil)

	logger.With("component", "cleaner").InfoContext(WithRunID(context.Background(), "r1"), "hello")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "component=cleaner")
	assert.Contains(t, out, "run_id=r1")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestRunIDHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = EnsureRunID(ctx)
	id := GetRunID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)))
	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "json", nil)

	assert.Same(t, logger, WithError(logger, nil))

	WithComponent(WithError(logger, assert.AnError), "merger").Info("failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())
	assert.Contains(t, buf.String(), `"component":"merger"`)
}
