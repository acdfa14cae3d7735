package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewJSONHandler(&infoBuf, "info"),
		NewJSONHandler(&errBuf, "error"),
	)).With("request_id", "req-9")

	logger.Info("listed leads", "owner_id", "u1")
	logger.Error("delete lead failed", "error", "timeout")

	infoLines := bytes.Split(bytes.TrimSpace(infoBuf.Bytes()), []byte("\n"))
	errLines := bytes.Split(bytes.TrimSpace(errBuf.Bytes()), []byte("\n"))
	assert.Len(t, infoLines, 2)
	require.Len(t, errLines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(errLines[0], &rec))
	assert.Equal(t, "delete lead failed", rec["msg"])
	assert.Equal(t, "req-9", rec["request_id"])
	assert.Equal(t, "timeout", rec["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
