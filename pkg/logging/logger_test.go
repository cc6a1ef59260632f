package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWithSyncer_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithSyncer("info", "json", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible")
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithSyncer_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithSyncer("debug", "console", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("console entry")
	assert.Contains(t, buf.String(), "console entry")
}

func TestNewWithSyncer_InvalidLevel(t *testing.T) {
	_, err := NewWithSyncer("loud", "json", zapcore.AddSync(&bytes.Buffer{}))
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestContextFields(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))

	logger, logs := NewTestLogger()
	logger.Info("with request", ContextFields(ctx)...)

	entries := logs.FilterField(ContextFields(ctx)[0]).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "with request", entries[0].Message)
}

func TestNewWithLevel_Adjustable(t *testing.T) {
	atom, err := ParseLevel("warn")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := NewWithLevel(atom, "json", zapcore.AddSync(&buf))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	atom.SetLevel(zapcore.InfoLevel)
	logger.Info("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
