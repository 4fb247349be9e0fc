// Package config loads focusguard settings from defaults, an optional YAML
// file and FOCUSGUARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/spf13/viper"
)

const EnvPrefix = "FOCUSGUARD"

// Time bases understood by the notification source.
const (
	TimeBaseUnix     = "unix"
	TimeBaseCoreData = "coredata"
)

// Focus mode automation backends.
const (
	BackendOsascript = "osascript"
	BackendNone      = "none"
)

// Restore policies applied when a session ends.
const (
	RestoreManual = "manual"
	RestoreAuto   = "auto"
)

// Config holds application configuration.
type Config struct {
	DataDir       string              `mapstructure:"data_dir"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	FocusMode     FocusModeConfig     `mapstructure:"focus_mode"`
	Log           LogConfig           `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings for the local store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationsConfig points at the host notification log.
type NotificationsConfig struct {
	DBPath   string `mapstructure:"db_path"`
	TimeBase string `mapstructure:"time_base"`
}

type FocusModeConfig struct {
	Backend     string        `mapstructure:"backend"`
	DefaultName string        `mapstructure:"default_name"`
	Restore     string        `mapstructure:"restore"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultBackend() string {
	if runtime.GOOS == "darwin" {
		return BackendOsascript
	}
	return BackendNone
}

// Load reads configuration. path overrides the config file location; when
// empty, FOCUSGUARD_CONFIG and then ~/.config/focusguard/config.yaml are
// tried. A missing default file is not an error.
func Load(path string) (Config, error) {
	home := os.Getenv("HOME")
	v := viper.New()

	v.SetDefault("data_dir", filepath.Join(home, ".local", "share", "focusguard"))
	v.SetDefault("database.path", "")
	v.SetDefault("notifications.db_path", filepath.Join(home, "Library", "Application Support", "NotificationCenter", "db2", "db"))
	v.SetDefault("notifications.time_base", TimeBaseUnix)
	v.SetDefault("focus_mode.backend", defaultBackend())
	v.SetDefault("focus_mode.default_name", domain.DefaultFocusModeName)
	v.SetDefault("focus_mode.restore", RestoreManual)
	v.SetDefault("focus_mode.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetConfigType("yaml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "focusguard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.applyDerived()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyDerived fills paths that default relative to the data dir.
func (c *Config) applyDerived() {
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.DataDir, "focusguard.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "focusguard.log")
	}
}

// Validate rejects unknown enum values and non-positive timeouts.
func (c Config) Validate() error {
	switch c.Notifications.TimeBase {
	case TimeBaseUnix, TimeBaseCoreData:
	default:
		return fmt.Errorf("notifications.time_base %q: %w", c.Notifications.TimeBase, domain.ErrInvalidInput)
	}
	switch c.FocusMode.Backend {
	case BackendOsascript, BackendNone:
	default:
		return fmt.Errorf("focus_mode.backend %q: %w", c.FocusMode.Backend, domain.ErrInvalidInput)
	}
	switch c.FocusMode.Restore {
	case RestoreManual, RestoreAuto:
	default:
		return fmt.Errorf("focus_mode.restore %q: %w", c.FocusMode.Restore, domain.ErrInvalidInput)
	}
	if c.FocusMode.Timeout <= 0 {
		return fmt.Errorf("focus_mode.timeout must be positive: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(c.FocusMode.DefaultName) == "" {
		return fmt.Errorf("focus_mode.default_name is empty: %w", domain.ErrInvalidInput)
	}
	return nil
}
