package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// ServerEnv names the environment variables that override ServerConfig.
type ServerEnv struct {
	Host              string
	Port              string
	ReadTimeout       string
	ReadHeaderTimeout string
	WriteTimeout      string
	IdleTimeout       string
	ShutdownTimeout   string
}

var serverEnv = &ServerEnv{
	Host:              "LIFELINE_SERVER_HOST",
	Port:              "LIFELINE_SERVER_PORT",
	ReadTimeout:       "LIFELINE_SERVER_READ_TIMEOUT",
	ReadHeaderTimeout: "LIFELINE_SERVER_READ_HEADER_TIMEOUT",
	WriteTimeout:      "LIFELINE_SERVER_WRITE_TIMEOUT",
	IdleTimeout:       "LIFELINE_SERVER_IDLE_TIMEOUT",
	ShutdownTimeout:   "LIFELINE_SERVER_SHUTDOWN_TIMEOUT",
}

// ServerConfig holds the listener address and the http.Server timeouts.
// Timeouts are written as Go durations and resolved once by Finalize.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`

	// rawPort holds the env port until validate parses it.
	rawPort  string
	timeouts ServerTimeouts
}

// ServerTimeouts are the resolved http.Server timeouts.
type ServerTimeouts struct {
	Read       time.Duration
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

// Addr returns the listen address. IPv6 hosts are bracketed.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts returns the durations resolved by Finalize.
func (c *ServerConfig) Timeouts() ServerTimeouts {
	return c.timeouts
}

// ShutdownTimeoutDuration returns the graceful drain window for the listener.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return c.timeouts.Shutdown
}

// Finalize applies defaults, then env (when env is non-nil), then validates
// and resolves the timeouts.
func (c *ServerConfig) Finalize(env *ServerEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.IdleTimeout, overlay.IdleTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	defaultString(&c.ReadTimeout, "15s")
	defaultString(&c.ReadHeaderTimeout, "5s")
	defaultString(&c.WriteTimeout, "30s")
	defaultString(&c.IdleTimeout, "2m")
	defaultString(&c.ShutdownTimeout, "10s")
}

func (c *ServerConfig) loadEnv(env *ServerEnv) {
	envString(env.Host, &c.Host)
	envString(env.Port, &c.rawPort)
	envString(env.ReadTimeout, &c.ReadTimeout)
	envString(env.ReadHeaderTimeout, &c.ReadHeaderTimeout)
	envString(env.WriteTimeout, &c.WriteTimeout)
	envString(env.IdleTimeout, &c.IdleTimeout)
	envString(env.ShutdownTimeout, &c.ShutdownTimeout)
}

func (c *ServerConfig) validate() error {
	if c.rawPort != "" {
		port, err := strconv.Atoi(c.rawPort)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", c.rawPort, err)
		}
		c.Port = port
		c.rawPort = ""
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"read_timeout", c.ReadTimeout, &c.timeouts.Read},
		{"read_header_timeout", c.ReadHeaderTimeout, &c.timeouts.ReadHeader},
		{"write_timeout", c.WriteTimeout, &c.timeouts.Write},
		{"idle_timeout", c.IdleTimeout, &c.timeouts.Idle},
		{"shutdown_timeout", c.ShutdownTimeout, &c.timeouts.Shutdown},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive, got %s", f.name, f.raw)
		}
		*f.dst = d
	}
	return nil
}

func defaultString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envString(name string, dst *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
