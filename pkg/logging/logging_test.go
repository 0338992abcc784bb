package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestToLevel(t *testing.T) {
	t.Parallel()

	level, err := ToLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, level)

	level, err = ToLevel("")
	require.NoError(t, err)
	require.Equal(t, zapcore.InfoLevel, level)

	_, err = ToLevel("chatty")
	require.Error(t, err)
}

func TestToFormat(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	format, err := ToFormat(AutoString, &buffer)
	require.NoError(t, err)
	require.Equal(t, Plain, format)

	format, err = ToFormat("JSON", &buffer)
	require.NoError(t, err)
	require.Equal(t, JSON, format)

	_, err = ToFormat("xml", &buffer)
	require.Error(t, err)
}

func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger, err := New("info", JSONString, &buffer)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("ledger operation confirmed", zap.String("signature", "abc"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buffer.Bytes()), &entry))
	require.Equal(t, "ledger operation confirmed", entry["msg"])
	require.Equal(t, "abc", entry["signature"])
	require.Equal(t, "info", entry["level"])
}

func TestNewPlainLogger(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger, err := New("warn", PlainString, &buffer)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("retrying ledger query")
	require.Contains(t, buffer.String(), "WARN")
	require.Contains(t, buffer.String(), "retrying ledger query")
	require.NotContains(t, buffer.String(), "hidden")
}
