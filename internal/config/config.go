package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
	"github.com/Ning0612/myfind/internal/report"
)

// Config represents the complete configuration for myfind
type Config struct {
	// Log controls the internal log stream (never the search output)
	Log LogConfig `mapstructure:"log"`

	// Color selects when the diagnostics prefix is coloured: auto, always, never
	Color string `mapstructure:"color"`

	// History records every run in a sqlite database when enabled
	History HistoryConfig `mapstructure:"history"`

	// Listing tunes the -ls output
	Listing ListingConfig `mapstructure:"listing"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig 檔案日誌設定（lumberjack rotation）
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// HistoryConfig 執行紀錄設定
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ListingConfig -ls 輸出設定
type ListingConfig struct {
	// TimeFormat is a Go time layout for the modification time column
	TimeFormat string `mapstructure:"time_format"`
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", domain.ErrConfigInvalid, err)
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %v", domain.ErrConfigInvalid, err)
	}
	if c.Log.File.Enabled && c.Log.File.Path == "" {
		return fmt.Errorf("%w: log.file.path cannot be empty when file logging is enabled", domain.ErrConfigInvalid)
	}
	if c.Log.File.MaxSizeMB < 0 || c.Log.File.MaxAgeDays < 0 || c.Log.File.MaxBackups < 0 {
		return fmt.Errorf("%w: log.file limits cannot be negative", domain.ErrConfigInvalid)
	}

	if !report.ColorMode(c.Color).IsValid() {
		return fmt.Errorf("%w: color must be one of auto, always, never, got %q", domain.ErrConfigInvalid, c.Color)
	}

	if c.History.Enabled && c.History.Dir == "" {
		return fmt.Errorf("%w: history.dir cannot be empty when history is enabled", domain.ErrConfigInvalid)
	}
	if strings.TrimSpace(c.Listing.TimeFormat) == "" {
		return fmt.Errorf("%w: listing.time_format cannot be empty", domain.ErrConfigInvalid)
	}

	return nil
}

// LoggerConfig converts the log section into a logger.Config.
// Call Validate first; unparsable values fall back to the defaults.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level, _ = logger.ParseLevel(c.Log.Level)
	cfg.Format, _ = logger.ParseFormat(c.Log.Format)

	if c.Log.File.Enabled {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		cfg.File = logger.FileConfig{
			Path:       ExpandPath(c.Log.File.Path),
			MaxSizeMB:  c.Log.File.MaxSizeMB,
			MaxAgeDays: c.Log.File.MaxAgeDays,
			MaxBackups: c.Log.File.MaxBackups,
			Compress:   c.Log.File.Compress,
		}
	}

	return cfg
}

// HistoryDir returns the expanded directory holding the run history database
func (c *Config) HistoryDir() string {
	return ExpandPath(c.History.Dir)
}

// DefaultDataDir returns the per-user directory for history and log files
func DefaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "myfind")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".myfind")
	}
	return filepath.Join(os.TempDir(), "myfind")
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	// Expand ~ to home directory
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
