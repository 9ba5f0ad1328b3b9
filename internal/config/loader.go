package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configDir  = ".litebrowse"
	configFile = "config"
	configType = "yaml"
)

// Defaults applied before reading the config file.
var defaults = map[string]any{
	"preferences.theme":            "default",
	"preferences.refresh_interval": 10 * time.Second,
	"preferences.max_cell_width":   40,
	"preferences.log_level":        "info",
}

// Loader reads and writes the configuration file.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a loader for the file at path. An empty path means
// ~/.litebrowse/config.yaml.
func NewLoader(path string) (*Loader, error) {
	if path == "" {
		dir, err := configDirPath()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		path = filepath.Join(dir, configFile+"."+configType)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType)
	v.SetEnvPrefix("LITEBROWSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	return &Loader{v: v, path: path}, nil
}

// BindFlags lets command-line flags override preferences. Flag names
// map to preference keys: --log-level -> preferences.log_level.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"preferences.log_level":        "log-level",
		"preferences.log_file":         "log-file",
		"preferences.refresh_interval": "refresh",
	}
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration. A missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	))
	if err := l.v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration back to the loader's file.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	l.v.Set("recent", cfg.Recent)
	l.v.Set("preferences", cfg.Preferences)

	return l.v.WriteConfigAs(l.path)
}

// SaveRecent persists the recent list, keeping the preferences as they
// are stored in the file rather than as overridden by flags.
func (l *Loader) SaveRecent(recent []RecentFile) error {
	fresh, err := NewLoader(l.path)
	if err != nil {
		return err
	}
	stored, err := fresh.Load()
	if err != nil {
		return err
	}
	stored.Recent = recent
	return fresh.Save(stored)
}

// Path returns the config file location.
func (l *Loader) Path() string {
	return l.path
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
