package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/lifeline/internal/config"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "0.1.0"
log_level = "debug"

[server]
host = "0.0.0.0"
port = 5000

[database]
host = "localhost"
port = 5432
name = "lifeline"
user = "lifeline"
password = "lifeline"

[api]
base_path = "/api"
max_body_size = "512KB"

[api.cors]
enabled = true
origins = ["*"]

[store]
driver = "postgres"

[classifier]
provider = "http"
endpoint = "http://localhost:5001"
timeout = "2s"
threshold = 0.85
max_concurrent = 8
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[classifier]
provider = "anthropic"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("server port: got %d, want 5000", cfg.Server.Port)
	}
	if cfg.ShutdownTimeoutDuration() != 20*time.Second {
		t.Errorf("shutdown timeout: got %s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level: got %s, want DEBUG", cfg.SlogLevel())
	}
	if cfg.API.MaxBodySizeBytes() != 512*1024 {
		t.Errorf("max body size: got %d", cfg.API.MaxBodySizeBytes())
	}
	if !cfg.API.CORS.Enabled || !slices.Equal(cfg.API.CORS.Origins, []string{"*"}) {
		t.Errorf("cors: got %+v", cfg.API.CORS)
	}
	if cfg.Store.Driver != config.StorePostgres {
		t.Errorf("store driver: got %s", cfg.Store.Driver)
	}
	if cfg.Classifier.Provider != "http" || cfg.Classifier.Threshold != 0.85 || cfg.Classifier.MaxConcurrent != 8 {
		t.Errorf("classifier: got %+v", cfg.Classifier)
	}
	if cfg.Classifier.TimeoutDuration() != 2*time.Second {
		t.Errorf("classifier timeout: got %s", cfg.Classifier.TimeoutDuration())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Chdir(dir)

	t.Setenv("LIFELINE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("env: got %s", cfg.Env())
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Classifier.Provider != "anthropic" || cfg.Classifier.Threshold != 0.85 {
		t.Errorf("classifier: got %+v", cfg.Classifier)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "lifeline.toml", baseConfig)
	writeConfig(t, dir, "config.prod.toml", overlayConfig)
	t.Chdir(t.TempDir())

	t.Setenv("LIFELINE_CONFIG", filepath.Join(dir, "lifeline.toml"))
	t.Setenv("LIFELINE_ENV", "prod")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("overlay next to explicit config should apply: port %d", cfg.Server.Port)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	t.Setenv("LIFELINE_VERSION", "2.0.0")
	t.Setenv("LIFELINE_SERVER_PORT", "3000")
	t.Setenv("LIFELINE_STORE_DRIVER", "memory")
	t.Setenv("LIFELINE_CLASSIFIER_THRESHOLD", "0.9")
	t.Setenv("LIFELINE_LOG_LEVEL", "warn")
	t.Setenv("LIFELINE_DB_HOST", "db.internal")
	t.Setenv("LIFELINE_OPENAPI_TITLE", "Flood Desk")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Store.Driver != config.StoreMemory {
		t.Errorf("store driver: got %s", cfg.Store.Driver)
	}
	if cfg.Classifier.Threshold != 0.9 {
		t.Errorf("threshold: got %v", cfg.Classifier.Threshold)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("log level: got %s", cfg.SlogLevel())
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host: got %s", cfg.Database.Host)
	}
	if cfg.API.OpenAPI.Title != "Flood Desk" {
		t.Errorf("openapi title: got %s", cfg.API.OpenAPI.Title)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env default: got %s", cfg.Env())
	}
	if cfg.Server.Addr() != "0.0.0.0:5000" {
		t.Errorf("addr default: got %s", cfg.Server.Addr())
	}
	if cfg.API.BasePath != "/api" || cfg.API.MaxBodySizeBytes() != 1024*1024 {
		t.Errorf("api defaults: got %+v", cfg.API)
	}
	if cfg.Store.Driver != config.StoreMemory {
		t.Errorf("store default: got %s", cfg.Store.Driver)
	}
	if cfg.Classifier.Provider != "keyword" || cfg.Classifier.Threshold != 0.8 {
		t.Errorf("classifier defaults: got %+v", cfg.Classifier)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("log level default: got %s", cfg.SlogLevel())
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad shutdown timeout", `shutdown_timeout = "later"`, "shutdown_timeout"},
		{"bad log level", `log_level = "loud"`, "log_level"},
		{"bad port", "[server]\nport = 70000", "server"},
		{"zero idle timeout", "[server]\nidle_timeout = \"0s\"", "idle_timeout"},
		{"bad base path", "[api]\nbase_path = \"/api/v1\"", "api"},
		{"bad body size", "[api]\nmax_body_size = \"lots\"", "max_body_size"},
		{"bad store driver", "[store]\ndriver = \"redis\"", "store"},
		{"bad provider", "[classifier]\nprovider = \"svm\"", "classifier"},
		{"bad threshold", "[classifier]\nthreshold = 1.5", "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			t.Chdir(dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", "[server\nport = ")
	t.Chdir(dir)

	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error = %v, want parse failure", err)
	}
}
