package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_writes_json_to_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "toast.log")

	logger, closer, err := New("debug", path)
	require.NoError(t, err)

	logger.Debug().Str("toast_id", "a").Msg("toast shown")
	logger.Trace().Msg("below level")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "a", entry["toast_id"])
	assert.Equal(t, "debug", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNew_appends_to_existing_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toast.log")
	require.NoError(t, os.WriteFile(path, []byte("{\"existing\":true}\n"), 0o644))

	logger, closer, err := New("info", path)
	require.NoError(t, err)
	logger.Info().Msg("appended")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestNew_invalid_level(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	closer() // must be safe to call
}

func TestNew_console_when_no_file(t *testing.T) {
	logger, closer, err := New("warn", "")
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
