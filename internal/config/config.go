// Package config loads service configuration from TOML files and
// LIFELINE_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/lifeline/internal/classifier"
	"github.com/JaimeStill/lifeline/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLifelineEnv             = "LIFELINE_ENV"
	EnvLifelineConfig          = "LIFELINE_CONFIG"
	EnvLifelineShutdownTimeout = "LIFELINE_SHUTDOWN_TIMEOUT"
	EnvLifelineVersion         = "LIFELINE_VERSION"
	EnvLifelineLogLevel        = "LIFELINE_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            "LIFELINE_DB_HOST",
	Port:            "LIFELINE_DB_PORT",
	Name:            "LIFELINE_DB_NAME",
	User:            "LIFELINE_DB_USER",
	Password:        "LIFELINE_DB_PASSWORD",
	SSLMode:         "LIFELINE_DB_SSL_MODE",
	MaxOpenConns:    "LIFELINE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LIFELINE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LIFELINE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LIFELINE_DB_CONN_TIMEOUT",
}

var classifierEnv = &classifier.Env{
	Provider:      "LIFELINE_CLASSIFIER_PROVIDER",
	Timeout:       "LIFELINE_CLASSIFIER_TIMEOUT",
	Threshold:     "LIFELINE_CLASSIFIER_THRESHOLD",
	MaxConcurrent: "LIFELINE_CLASSIFIER_MAX_CONCURRENT",
	Endpoint:      "LIFELINE_CLASSIFIER_ENDPOINT",
	APIKey:        "LIFELINE_CLASSIFIER_API_KEY",
	Model:         "LIFELINE_CLASSIFIER_MODEL",
	MaxTokens:     "LIFELINE_CLASSIFIER_MAX_TOKENS",
}

// Config is the root configuration for the Lifeline service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	API             APIConfig         `toml:"api"`
	Store           StoreConfig       `toml:"store"`
	Classifier      classifier.Config `toml:"classifier"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
	LogLevel        string            `toml:"log_level"`
}

// Env returns the LIFELINE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLifelineEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// SlogLevel returns LogLevel as a slog.Level. Finalize guarantees it parses.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config file exists, defaults and environment
// variables provide all configuration. LIFELINE_CONFIG overrides the base path.
func Load() (*Config, error) {
	cfg := &Config{}

	base := BaseConfigFile
	if v := os.Getenv(EnvLifelineConfig); v != "" {
		base = v
	}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(base); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Store.Merge(&overlay.Store)
	c.Classifier.Merge(&overlay.Classifier)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLifelineShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLifelineVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvLifelineLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// overlayPath returns config.<env>.toml next to the base file when it exists.
func overlayPath(base string) string {
	env := os.Getenv(EnvLifelineEnv)
	if env == "" {
		return ""
	}

	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
