package config

import (
	"path/filepath"
	"slices"
	"time"
)

const maxRecent = 10

// Config represents the application configuration.
type Config struct {
	Recent      []RecentFile `mapstructure:"recent" yaml:"recent"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
}

// RecentFile is a database file the user opened before.
type RecentFile struct {
	Path     string    `mapstructure:"path" yaml:"path"`
	OpenedAt time.Time `mapstructure:"opened_at" yaml:"opened_at"`
}

// Preferences holds user preferences.
type Preferences struct {
	Theme           string        `mapstructure:"theme" yaml:"theme"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	MaxCellWidth    int           `mapstructure:"max_cell_width" yaml:"max_cell_width"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile         string        `mapstructure:"log_file" yaml:"log_file,omitempty"`
}

// DisplayString returns a human-readable summary of the recent file.
func (r RecentFile) DisplayString() string {
	return filepath.Base(r.Path) + " (" + filepath.Dir(r.Path) + ")"
}

// HasRecent checks if path is already in the recent list.
func (cfg *Config) HasRecent(path string) bool {
	return slices.ContainsFunc(cfg.Recent, func(r RecentFile) bool { return r.Path == path })
}

// AddRecent moves path to the front of the recent list, keeping at most
// maxRecent entries.
func (cfg *Config) AddRecent(path string, at time.Time) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.Recent = slices.DeleteFunc(cfg.Recent, func(r RecentFile) bool { return r.Path == path })
	cfg.Recent = slices.Insert(cfg.Recent, 0, RecentFile{Path: path, OpenedAt: at})
	if len(cfg.Recent) > maxRecent {
		cfg.Recent = cfg.Recent[:maxRecent]
	}
}
