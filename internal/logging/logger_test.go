package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "focusguard.log")

	l, closer, err := New("info", path)
	require.NoError(t, err)
	l.Info().Str("session_id", "abc").Msg("session started")
	l.Debug().Msg("hidden")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.Contains(t, string(data), `"message":"session started"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_Level(t *testing.T) {
	l, closer, err := New("warn", filepath.Join(t.TempDir(), "x.log"))
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
