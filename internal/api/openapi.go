package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/lifeline/internal/config"
	"github.com/JaimeStill/lifeline/internal/reports"
	"github.com/JaimeStill/lifeline/pkg/openapi"
)

func newSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(reports.Schemas())
	spec.AddPaths(reports.Paths())
	spec.AddPaths(map[string]*openapi.PathItem{
		"/health": {
			Get: &openapi.Operation{
				OperationID: "health",
				Summary:     "API liveness",
				Tags:        []string{"system"},
				Responses: map[int]*openapi.Response{
					200: {Description: "Service is up"},
				},
			},
		},
	})

	return spec
}

func specHandler(cfg *config.Config) (http.HandlerFunc, error) {
	data, err := openapi.MarshalJSON(newSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return openapi.ServeSpec(data), nil
}
