// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/lifeline/internal/config"
	"github.com/JaimeStill/lifeline/internal/infrastructure"
	"github.com/JaimeStill/lifeline/pkg/middleware"
	"github.com/JaimeStill/lifeline/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	patterns, err := registerRoutes(mux, domain, cfg)
	if err != nil {
		return nil, err
	}

	runtime.Logger.Info(
		"routes registered",
		"base_path", cfg.API.BasePath,
		"routes", patterns,
	)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
		middleware.MaxBody(cfg.API.MaxBodySizeBytes()),
	)

	return m, nil
}
