package api

import (
	"net/http"

	"github.com/JaimeStill/lifeline/internal/config"
	"github.com/JaimeStill/lifeline/pkg/handlers"
	"github.com/JaimeStill/lifeline/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) ([]string, error) {
	spec, err := specHandler(cfg)
	if err != nil {
		return nil, err
	}

	groups := []routes.Group{
		domain.Reports.Handler().Routes(),
		{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/health", Handler: health},
				{Method: "GET", Pattern: "/openapi.json", Handler: spec},
			},
		},
	}

	routes.Register(mux, groups...)

	var patterns []string
	for _, g := range groups {
		patterns = append(patterns, g.Patterns()...)
	}
	return patterns, nil
}

func health(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
