package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"", LogLevelInfo},
		{" warning ", LogLevelWarn},
		{"warn", LogLevelWarn},
		{"error", LogLevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func newBufferLogger(buf *bytes.Buffer, level LogLevel) *StructuredLogger {
	return NewLogger(&LoggerConfig{
		Level:       level,
		Format:      "json",
		Output:      buf,
		Component:   "engine",
		RunID:       "run-1",
		CustomAttrs: map[string]interface{}{"team": "research"},
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, LogLevelInfo)

	logger.Debug("engine.step.start", "agent", "supervisor")
	logger.Info("engine.step.done", "agent", "supervisor", "status", "running")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1, "debug must be filtered at info level")

	entry := lines[0]
	assert.Equal(t, "engine.step.done", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "research", entry["team"])
	assert.Equal(t, "supervisor", entry["agent"])
	assert.Equal(t, "running", entry["status"])
}

func TestStructuredLoggerWithHelpersClone(t *testing.T) {
	var buf bytes.Buffer
	base := newBufferLogger(&buf, LogLevelDebug)

	derived := base.WithComponent("cli").WithRun("run-2").WithContext("attempt", 2)
	derived.Warn("cli.metrics.error")
	base.Error("engine.run.error")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "cli", lines[0]["component"])
	assert.Equal(t, "run-2", lines[0]["run_id"])
	assert.EqualValues(t, 2, lines[0]["attempt"])

	assert.Equal(t, "engine", lines[1]["component"])
	assert.Equal(t, "run-1", lines[1]["run_id"])
	assert.NotContains(t, lines[1], "attempt")
}

func TestStructuredLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "key=value")
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("debug", "n", 1)
	logger.Error("error")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.EqualValues(t, 1, lines[0]["n"])

	assert.NotNil(t, NewDefaultSlogLogger())
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapAdapter(zap.New(core))

	logger.Info("engine.run.done", "steps", 3, "status", "finished")
	logger.Warn("engine.observer.error", "error", "boom")

	require.Equal(t, 2, logs.Len())

	first := logs.All()[0]
	assert.Equal(t, "engine.run.done", first.Message)
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	assert.EqualValues(t, 3, first.ContextMap()["steps"])
	assert.Equal(t, "finished", first.ContextMap()["status"])

	assert.Equal(t, 1, logs.FilterMessage("engine.observer.error").Len())
	assert.NoError(t, NewZapAdapter(nil).(*ZapAdapter).Sync())
}

func TestOrNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))

	logger := NewSlogLogger(LogLevelInfo, "text", false)
	assert.Same(t, logger, OrNoOp(logger))

	// must not panic
	NoOpLogger{}.Error("x", "k", "v")
}
