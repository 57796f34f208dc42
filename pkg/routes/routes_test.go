package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/lifeline/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func testGroup() routes.Group {
	return routes.Group{
		Prefix: "/report",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/update",
				Routes: []routes.Route{{Method: "PUT", Pattern: "", Handler: ok}},
			},
		},
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, testGroup())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"create", "POST", "/report", http.StatusOK},
		{"find", "GET", "/report/abc", http.StatusOK},
		{"nested update", "PUT", "/report/update", http.StatusOK},
		{"wrong method", "DELETE", "/report", http.StatusMethodNotAllowed},
		{"unknown", "GET", "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	got := testGroup().Patterns()
	want := []string{
		"POST /report",
		"GET /report/{id}",
		"PUT /report/update",
	}

	if !slices.Equal(got, want) {
		t.Errorf("patterns: got %v, want %v", got, want)
	}
}
