// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by every command.
type Config struct {
	Env      string `env:"MATHPATH_ENV" envDefault:"development"`
	LogLevel string `env:"MATHPATH_LOG_LEVEL" envDefault:"info"`
	// DB is the SQLite path. Empty means the default data directory.
	DB          string `env:"MATHPATH_DB" envDefault:""`
	Language    string `env:"MATHPATH_LANGUAGE" envDefault:"mk"`
	MetricsAddr string `env:"MATHPATH_METRICS_ADDR" envDefault:""`

	Redis Redis
}

// Redis configures the optional remote learner store.
type Redis struct {
	Addr     string        `env:"MATHPATH_REDIS_ADDR" envDefault:""`
	Password string        `env:"MATHPATH_REDIS_PASSWORD" envDefault:""`
	DB       int           `env:"MATHPATH_REDIS_DB" envDefault:"0"`
	Prefix   string        `env:"MATHPATH_REDIS_PREFIX" envDefault:"mathpath"`
	Timeout  time.Duration `env:"MATHPATH_REDIS_TIMEOUT" envDefault:"3s"`
}

// Enabled reports whether a remote store was configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DataDir returns the directory holding the database and log file.
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "mathpath"), nil
}

// DBPath returns the configured SQLite path or the default one.
func (c *Config) DBPath() (string, error) {
	if c.DB != "" {
		return c.DB, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mathpath.db"), nil
}

// LogPath returns the log file used while the terminal UI runs.
func (c *Config) LogPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mathpath.log"), nil
}
