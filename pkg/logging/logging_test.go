package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/comms-client/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected zerolog.Level
	}{
		{name: "trace level", input: "trace", expected: zerolog.TraceLevel},
		{name: "debug level", input: "debug", expected: zerolog.DebugLevel},
		{name: "info level", input: "info", expected: zerolog.InfoLevel},
		{name: "warn level", input: "warn", expected: zerolog.WarnLevel},
		{name: "warning alias", input: "WARNING", expected: zerolog.WarnLevel},
		{name: "error level", input: "error", expected: zerolog.ErrorLevel},
		{name: "disabled", input: "off", expected: zerolog.Disabled},
		{name: "unknown level defaults to info", input: "unknown", expected: zerolog.InfoLevel},
		{name: "empty string defaults to info", input: "", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, logging.ParseLevel(tt.input))
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewJSON(&buf, "info")

	logger.Debug("hidden", nil)
	logger.Info("Operation completed", map[string]interface{}{"operation": "GetAccount", "status": 200})
	logger.Error("Operation failed", map[string]interface{}{"kind": "NotFound"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "Operation completed", first["message"])
	assert.Equal(t, "GetAccount", first["operation"])
	assert.InDelta(t, 200, first["status"], 0)
	assert.Contains(t, first, "time")

	var second map[string]interface{}

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "error", second["level"])
	assert.Equal(t, "NotFound", second["kind"])
}

func TestLogger_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewConsole(&buf, "debug")
	logger.Warn("Instrumentation hook panicked", map[string]interface{}{"phase": "total"})

	assert.Contains(t, buf.String(), "Instrumentation hook panicked")
	assert.Contains(t, buf.String(), "phase=")
	assert.Equal(t, zerolog.DebugLevel, logger.Zerolog().GetLevel())
}
