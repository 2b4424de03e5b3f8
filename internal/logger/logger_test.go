package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure("production", &buf)
	defer Configure("development", nil)

	Info("vehicle loaded", "vehicle_id", 42)
	Debug("hidden at info level")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "vehicle loaded", entry["msg"])
	assert.Equal(t, float64(42), entry["vehicle_id"])
}

func TestConfigureDevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	Configure("development", &buf)
	defer Configure("development", nil)

	Debug("debug visible", "path", "/vehicles")

	assert.Contains(t, buf.String(), "debug visible")
	assert.Contains(t, buf.String(), "path=/vehicles")
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	custom := With("component", "gateway")
	ctx := WithContext(context.Background(), custom)
	assert.Equal(t, custom, FromContext(ctx))
}
