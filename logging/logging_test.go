package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogImageSkipped(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	LogImageSkipped("/photos/broken.png", errors.New("unexpected EOF"))

	out := buf.String()
	assert.Contains(t, out, "image skipped")
	assert.Contains(t, out, "path=/photos/broken.png")
	assert.Contains(t, out, `reason="unexpected EOF"`)
}

func TestDefaultLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	DebugLog("hidden %d", 1)
	LogInfo("hidden %d", 2)
	LogWarning("shown %d", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 3")
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdiff.log")
	require.NoError(t, SetupLogger(path, true))

	DebugLog("fingerprinting %s", "a.png")
	LogError("failed %s", "b.png")
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fingerprinting a.png")
	assert.Contains(t, string(data), "failed b.png")
	assert.Contains(t, string(data), "debug log closed")
}

func TestSetupLoggerBadPath(t *testing.T) {
	err := SetupLogger(filepath.Join(t.TempDir(), "missing", "pdiff.log"), false)
	assert.Error(t, err)
	CloseLogger()
}
