package infrastructure_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/lifeline/internal/config"
	"github.com/JaimeStill/lifeline/internal/infrastructure"
	"github.com/JaimeStill/lifeline/pkg/database"
)

func validConfig(driver string) *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "lifeline",
			User:            "lifeline",
			Password:        "lifeline",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Store:    config.StoreConfig{Driver: driver},
		Version:  "0.1.0",
		LogLevel: "info",
	}
}

func TestNewMemory(t *testing.T) {
	infra, err := infrastructure.New(validConfig(config.StoreMemory))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database != nil {
		t.Error("Database should be nil for the memory store")
	}
	if err := infra.Start(); err != nil {
		t.Errorf("Start() error = %v", err)
	}

	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Errorf("WaitForStartup() error = %v", err)
	}
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle should be ready without a database")
	}
	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewPostgresConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig(config.StorePostgres))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database == nil {
		t.Fatal("Database is nil for the postgres store")
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestLoggerLevel(t *testing.T) {
	cfg := validConfig(config.StoreMemory)
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	infra, err := infrastructure.NewWithWriter(cfg, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	infra.Logger.Info("hidden")
	infra.Logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %s", out)
	}
}
