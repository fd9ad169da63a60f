// Package config loads datanest's runtime configuration.
//
// PRECEDENCE (lowest to highest):
//
//	built-in defaults < datanest.yaml < DATANEST_* env vars < command-line flags
//
// A missing config file is not an error. Every key has a usable default so
// `datanest serve` works on a fresh checkout with nothing configured.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "DATANEST"
	configFileName = "datanest"
	configFileType = "yaml"

	// MinSecretLength matches the HMAC key floor enforced by the token service.
	MinSecretLength = 16
)

// Config keys. Flag names use dashes; viper keys use underscores.
const (
	KeyPort            = "port"
	KeyDBPath          = "db_path"
	KeyLogLevel        = "log_level"
	KeyAPISecret       = "api_secret"
	KeySettingsSecret  = "settings_secret"
	KeyShutdownTimeout = "shutdown_timeout"
)

// Config is the resolved configuration.
type Config struct {
	Port            int           `mapstructure:"port"`
	DBPath          string        `mapstructure:"db_path"`
	LogLevel        string        `mapstructure:"log_level"`
	APISecret       string        `mapstructure:"api_secret"`
	SettingsSecret  string        `mapstructure:"settings_secret"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Port:            8080,
		DBPath:          "data/datanest.db",
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
	}
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"port":             KeyPort,
	"db":               KeyDBPath,
	"log-level":        KeyLogLevel,
	"shutdown-timeout": KeyShutdownTimeout,
}

// Load resolves the configuration. path names an explicit config file; when
// empty, datanest.yaml is looked up in the working directory. flags may be
// nil; only flags the user actually set override lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyPort, def.Port)
	v.SetDefault(KeyDBPath, def.DBPath)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyAPISecret, def.APISecret)
	v.SetDefault(KeySettingsSecret, def.SettingsSecret)
	v.SetDefault(KeyShutdownTimeout, def.ShutdownTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly named file must exist; the implicit lookup may miss.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range 1-65535", c.Port)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.APISecret != "" && len(c.APISecret) < MinSecretLength {
		return fmt.Errorf("config: api_secret must be at least %d characters", MinSecretLength)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: shutdown_timeout must be positive")
	}
	return nil
}

// AuthEnabled reports whether write routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.APISecret != ""
}

// Level returns the slog level for LogLevel. Validate has already run, so an
// unknown value falls back to Info.
func (c *Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug/info/warn/error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
