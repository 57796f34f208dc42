package config

import (
	"fmt"
	"os"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	EnvStoreDriver = "LIFELINE_STORE_DRIVER"
)

// StoreConfig selects the report persistence backend.
type StoreConfig struct {
	Driver string `toml:"driver"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	if c.Driver == "" {
		c.Driver = StoreMemory
	}
	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.Driver = v
	}

	switch c.Driver {
	case StoreMemory, StorePostgres:
		return nil
	}
	return fmt.Errorf("unknown driver %q (want %s or %s)", c.Driver, StoreMemory, StorePostgres)
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
}
