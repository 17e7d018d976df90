package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONWithSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "atlas.log")

	logger, err := New(Options{File: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("hello")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.NotEmpty(t, entry["session"])
}

func TestNewVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.log")
	logger, err := New(Options{File: path, Verbose: true})
	require.NoError(t, err)
	logger.Debug("visible")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "visible")
}

func TestNewWithoutFile(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
