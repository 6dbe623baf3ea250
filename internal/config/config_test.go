package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
)

func TestLoadFromString_Defaults(t *testing.T) {
	cfg, err := LoadFromString("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "auto", cfg.Color)
	assert.False(t, cfg.History.Enabled)
	assert.NotEmpty(t, cfg.History.Dir)
	assert.Equal(t, "Jan _2 15:04", cfg.Listing.TimeFormat)
}

func TestLoadFromString_Values(t *testing.T) {
	yaml := `
log:
  level: DEBUG
  format: json
  file:
    enabled: true
    path: /var/log/myfind.log
    max_size_mb: 5
color: never
history:
  enabled: true
  dir: /tmp/myfind-history
listing:
  time_format: "2006-01-02 15:04"
`
	cfg, err := LoadFromString(yaml, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Log.File.Enabled)
	assert.Equal(t, 5, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, 30, cfg.Log.File.MaxAgeDays, "unset keys keep their defaults")
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "/tmp/myfind-history", cfg.HistoryDir())
	assert.Equal(t, "2006-01-02 15:04", cfg.Listing.TimeFormat)

	lc := cfg.LoggerConfig()
	assert.Equal(t, logger.LevelDebug, lc.Level)
	assert.Equal(t, logger.FormatJSON, lc.Format)
	require.Len(t, lc.Outputs, 2)
	assert.Equal(t, logger.OutputStderr, lc.Outputs[0].Type)
	assert.Equal(t, logger.OutputFile, lc.Outputs[1].Type)
	assert.Equal(t, "/var/log/myfind.log", lc.File.Path)
}

func TestLoadFromString_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"bad color", "color: sometimes\n"},
		{"empty time format", "listing:\n  time_format: \"  \"\n"},
		{"negative rotation", "log:\n  file:\n    max_backups: -1\n"},
		{"malformed yaml", "log: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromString(tt.yaml, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfigInvalid), "got %v", err)
		})
	}
}

func TestLoad_OverridesWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\ncolor: always\n"), 0644))

	cfg, err := Load(path, map[string]any{"log.level": "info"})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "always", cfg.Color)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MYFIND_LOG_LEVEL", "debug")
	t.Setenv("MYFIND_HISTORY_ENABLED", "true")
	t.Setenv("MYFIND_HISTORY_DIR", "/tmp/from-env")

	cfg, err := LoadFromString("log:\n  level: error\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/from-env", cfg.History.Dir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}

func TestLoad_NoFileInSearchPathIsFine(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("MYFIND_TEST_DIR", "/opt/data")

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "logs"), ExpandPath("~/logs"))
	assert.Equal(t, "/opt/data/x", ExpandPath("$MYFIND_TEST_DIR/x"))
	assert.Equal(t, "", ExpandPath(""))
}
