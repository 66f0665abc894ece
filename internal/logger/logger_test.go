package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"questionapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Level: "warn"}, time.UTC)

	log.Info("dropped")
	log.Warn("kept")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNewWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Level: "loud"}, nil)

	log.Debug("dropped")
	log.Info("kept")

	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.NotContains(t, buf.String(), "dropped")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, config.LogConfig{Level: "info"}, time.UTC)

	ctx := WithRequestID(context.Background(), "rid-1")
	assert.Equal(t, "rid-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	FromContext(ctx, base).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rid-1", entry["request_id"])
}
