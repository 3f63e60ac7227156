package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWithWritersDualOutput(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("frame broadcast", "subscribers", 3)

	// Text to stderr, JSON to the file writer.
	assert.Contains(t, stderr.String(), "frame broadcast")
	assert.Contains(t, stderr.String(), "subscribers=3")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	assert.Equal(t, "frame broadcast", entry["msg"])
	assert.Equal(t, float64(3), entry["subscribers"])
}

func TestSetupLoggerWithWritersLevelFilter(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("dropped")
	logger.Info("also dropped")
	logger.Warn("kept")

	assert.False(t, strings.Contains(stderr.String(), "dropped"))
	assert.Contains(t, stderr.String(), "kept")
	assert.Contains(t, file.String(), "kept")
}
