package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datanest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 0, "")
	fs.String("db", "", "")
	fs.String("log-level", "", "")
	fs.Duration("shutdown-timeout", 0, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
port: 9090
db_path: /tmp/nest.db
log_level: DEBUG
api_secret: 0123456789abcdef
shutdown_timeout: 5s
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/nest.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9090\n")
	t.Setenv("DATANEST_PORT", "7070")
	t.Setenv("DATANEST_SETTINGS_SECRET", "hunter2")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "hunter2", cfg.SettingsSecret)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATANEST_PORT", "7070")
	t.Setenv("DATANEST_DB_PATH", "/from/env.db")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--port", "6060"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Port)
	// --db was not set, so the env value stands.
	assert.Equal(t, "/from/env.db", cfg.DBPath)
}

func TestLoad_UnsetFlagsKeepDefaults(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/datanest.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := writeConfig(t, "api_secret: short\n")

	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "api_secret")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.DBPath = "  " }, true},
		{"memory db", func(c *Config) { c.DBPath = ":memory:" }, false},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"short secret", func(c *Config) { c.APISecret = "abc" }, true},
		{"16 char secret", func(c *Config) { c.APISecret = "abcdefghijklmnop" }, false},
		{"zero timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
