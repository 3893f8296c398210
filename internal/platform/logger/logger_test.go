package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptme/internal/platform/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.Debug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, logger.Warn, logger.ParseLevel("warning"))
	assert.Equal(t, logger.Info, logger.ParseLevel(""))
	assert.Equal(t, logger.Info, logger.ParseLevel("verbose"))
	assert.Equal(t, logger.FormatJSON, logger.ParseFormat(" json "))
	assert.Equal(t, logger.FormatText, logger.ParseFormat("logfmt"))
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{
		Level:  logger.Info,
		Format: logger.FormatJSON,
		App:    "adoptme",
		Output: &buf,
	})

	log.Debug("hidden", nil)
	log.With(map[string]any{"request_id": "r-1"}).Warn("pet adopted twice", map[string]any{
		"pet_id": "abc",
		"error":  errors.New("boom"),
		"":       "ignored",
	})
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "pet adopted twice", entry["msg"])
	assert.Equal(t, "adoptme", entry["app"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "abc", entry["pet_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "ts")
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Output: &buf})

	log.Debug("store opened", map[string]any{"driver": "memory"})

	out := buf.String()
	assert.Contains(t, out, "store opened")
	assert.Contains(t, out, "memory")
}
