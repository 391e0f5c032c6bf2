package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)

	logger.Debug("request completed", "method", "GET", "status", 200)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "request completed", record["msg"])
	assert.Equal(t, "goalcheck", record["component"])
	assert.Equal(t, "GET", record["method"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "text", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("transport failure", "error", "connection refused")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "transport failure")
	assert.Contains(t, out, "component=goalcheck")
}

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("", "", &buf)
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestNew_Rejects(t *testing.T) {
	_, err := New("trace", "text", &bytes.Buffer{})
	assert.EqualError(t, err, `logging: unsupported level "trace"`)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.EqualError(t, err, `logging: unsupported format "xml"`)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
