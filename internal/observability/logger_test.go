package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/meikuraledutech/flowchart/internal/config"
)

func TestConsoleLoggerColors(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := newLogger(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "flowchart",
		Colors:      config.ColorConfig{Info: "green"},
	}, zapcore.AddSync(buf))

	logger.Info("Node added")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, colorMap["green"]+"INFO"+colorReset)
	assert.Contains(t, out, "Node added")
	assert.Contains(t, out, "flowchart")
}

func TestJSONLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := newLogger(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(buf))

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "kept", entry["msg"])
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := newLogger(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(buf))
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowchart.log")
	logger := NewFileLogger(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1})
	logger.Info("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)

	assert.NotNil(t, NewFileLogger(config.LoggerConfig{}), "no file means a no-op logger")
}
