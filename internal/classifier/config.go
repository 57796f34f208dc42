package classifier

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderKeyword   = "keyword"
	ProviderHTTP      = "http"
	ProviderAnthropic = "anthropic"
)

// Config selects and tunes the classification provider.
type Config struct {
	Provider      string  `toml:"provider"`
	Timeout       string  `toml:"timeout"`
	Threshold     float64 `toml:"threshold"`
	MaxConcurrent int     `toml:"max_concurrent"`
	Endpoint      string  `toml:"endpoint"`
	APIKey        string  `toml:"api_key"`
	Model         string  `toml:"model"`
	MaxTokens     int     `toml:"max_tokens"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider      string
	Timeout       string
	Threshold     string
	MaxConcurrent string
	Endpoint      string
	APIKey        string
	Model         string
	MaxTokens     string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Threshold != 0 {
		c.Threshold = overlay.Threshold
	}
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderKeyword
	}
	if c.Timeout == "" {
		c.Timeout = "3s"
	}
	if c.Threshold == 0 {
		c.Threshold = 0.8
	}
	if c.Model == "" {
		c.Model = "claude-haiku-4-5"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 100
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := lookup(env.Provider); v != "" {
		c.Provider = v
	}
	if v := lookup(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := lookup(env.Threshold); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Threshold = t
		}
	}
	if v := lookup(env.MaxConcurrent); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := lookup(env.Endpoint); v != "" {
		c.Endpoint = v
	}
	if v := lookup(env.APIKey); v != "" {
		c.APIKey = v
	}
	if v := lookup(env.Model); v != "" {
		c.Model = v
	}
	if v := lookup(env.MaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderKeyword, ProviderAnthropic:
	case ProviderHTTP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for provider %s", ProviderHTTP)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1]: %v", c.Threshold)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("invalid max_concurrent: %d", c.MaxConcurrent)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("invalid max_tokens: %d", c.MaxTokens)
	}
	return nil
}

func lookup(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}

// New builds the configured provider, bounded by MaxConcurrent when set
// and wrapped with Guard.
func New(cfg *Config, logger *slog.Logger) (Classifier, error) {
	var c Classifier

	switch cfg.Provider {
	case ProviderKeyword:
		c = NewKeyword()
	case ProviderHTTP:
		c = NewHTTP(cfg.Endpoint, cfg.APIKey, cfg.TimeoutDuration())
	case ProviderAnthropic:
		c = NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	logger.Info(
		"classifier configured",
		"provider", cfg.Provider,
		"timeout", cfg.Timeout,
		"threshold", cfg.Threshold,
		"max_concurrent", cfg.MaxConcurrent,
	)

	return Guard(Limit(c, cfg.MaxConcurrent)), nil
}
