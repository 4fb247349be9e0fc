package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FOCUSGUARD_CONFIG", "")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolatedHome(t)

	c, err := Load("")
	require.NoError(t, err)

	dataDir := filepath.Join(home, ".local", "share", "focusguard")
	assert.Equal(t, dataDir, c.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "focusguard.db"), c.Database.Path)
	assert.Equal(t, filepath.Join(dataDir, "focusguard.log"), c.Log.File)
	assert.Equal(t, TimeBaseUnix, c.Notifications.TimeBase)
	assert.Equal(t, domain.DefaultFocusModeName, c.FocusMode.DefaultName)
	assert.Equal(t, RestoreManual, c.FocusMode.Restore)
	assert.Equal(t, 10*time.Second, c.FocusMode.Timeout)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := isolatedHome(t)
	path := filepath.Join(home, "custom.yaml")
	yaml := `data_dir: /tmp/fg
notifications:
  time_base: coredata
focus_mode:
  backend: none
  default_name: Deep Work
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("FOCUSGUARD_FOCUS_MODE_RESTORE", "auto")
	t.Setenv("FOCUSGUARD_LOG_LEVEL", "debug")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fg", c.DataDir)
	assert.Equal(t, "/tmp/fg/focusguard.db", c.Database.Path)
	assert.Equal(t, TimeBaseCoreData, c.Notifications.TimeBase)
	assert.Equal(t, BackendNone, c.FocusMode.Backend)
	assert.Equal(t, "Deep Work", c.FocusMode.DefaultName)
	assert.Equal(t, 3*time.Second, c.FocusMode.Timeout)
	assert.Equal(t, RestoreAuto, c.FocusMode.Restore)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_DefaultFileLocation(t *testing.T) {
	home := isolatedHome(t)
	dir := filepath.Join(home, ".config", "focusguard")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("focus_mode:\n  backend: none\n"), 0o644))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendNone, c.FocusMode.Backend)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	home := isolatedHome(t)
	_, err := Load(filepath.Join(home, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownEnum(t *testing.T) {
	isolatedHome(t)
	t.Setenv("FOCUSGUARD_NOTIFICATIONS_TIME_BASE", "julian")

	_, err := Load("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Notifications: NotificationsConfig{TimeBase: TimeBaseUnix},
		FocusMode: FocusModeConfig{
			Backend:     BackendNone,
			DefaultName: "Work",
			Restore:     RestoreManual,
			Timeout:     time.Second,
		},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.FocusMode.Backend = "shortcuts" }},
		{"restore", func(c *Config) { c.FocusMode.Restore = "sometimes" }},
		{"timeout", func(c *Config) { c.FocusMode.Timeout = 0 }},
		{"name", func(c *Config) { c.FocusMode.DefaultName = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), domain.ErrInvalidInput)
		})
	}
}
