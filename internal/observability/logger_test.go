package observability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "form-filler",
		Colors:      config.ColorConfig{Info: "green"},
	}, zapcore.AddSync(&buf))

	logger.Named("extractor").Info("Extracted fields.", zap.Int("count", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "form-filler.extractor.")
	assert.Contains(t, out, "Extracted fields.")
	assert.Contains(t, out, `"count": 3`)
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggerConfig{Level: "verbose", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("debug line")
	logger.Info("info line")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestNewLogger_FileOutputIsJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")
	var console bytes.Buffer
	logger := newLogger(config.LoggerConfig{
		Level:   "info",
		Format:  "console",
		LogFile: logFile,
		MaxSize: 1,
	}, zapcore.AddSync(&console))

	logger.Error("Action failed.", zap.String("line", "fill('#x', 'y')"))
	require.NoError(t, logger.Sync())

	f, err := os.Open(logFile)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "Action failed.", entry["msg"])
	assert.Equal(t, "fill('#x', 'y')", entry["line"])
}

func TestSync_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { Sync(nil) })
}
