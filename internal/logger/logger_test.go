package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Out: &buf})
	defer UseTestMode()

	Info("hidden %d", 1)
	Debug("hidden too")
	Warn("shown %s", "warning")
	LogError("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
	assert.Contains(t, out, "shown error")
}

func TestFileSinkReceivesDebug(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "hoist-update.log")
	Configure(Options{Level: "error", Out: &buf, File: path})

	Debug("installer exited with code %d", 17)
	Info("plain info")
	Sync()
	UseTestMode()

	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "installer exited with code 17", rec["msg"])
	assert.Equal(t, "debug", rec["level"])
	assert.EqualValues(t, os.Getpid(), rec["pid"])
	assert.NotEmpty(t, rec["ts"])
}

func TestSetLevelKeepsOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "error", Out: &buf})
	defer UseTestMode()

	SetLevel("debug")
	Debug("now visible")

	assert.Contains(t, buf.String(), "now visible")
}

func TestLoggingBeforeConfigureIsDropped(t *testing.T) {
	mu.Lock()
	ready.Store(false)
	mu.Unlock()
	defer UseTestMode()

	assert.NotPanics(t, func() { Info("nowhere") })
}
