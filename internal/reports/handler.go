package reports

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lifeline/pkg/handlers"
	"github.com/JaimeStill/lifeline/pkg/routes"
)

// Handler provides HTTP endpoints for report operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

type reportResponse struct {
	OK     bool    `json:"ok"`
	Report *Report `json:"report"`
}

type listResponse struct {
	OK      bool     `json:"ok"`
	Reports []Report `json:"reports"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reports"),
	}
}

// Routes returns the route group definition for report and rescue endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/report",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: h.Create},
					{Method: "PUT", Pattern: "/update", Handler: h.Update},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
				},
			},
			{
				Prefix: "/rescue",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/list", Handler: h.List},
					{Method: "PUT", Pattern: "/update-status", Handler: h.UpdateStatus},
				},
			},
		},
	}
}

// Create decodes a CreateCommand JSON body and returns 201 with the stored report.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[CreateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.MapHTTPStatus(err), err)
		return
	}

	report, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, reportResponse{OK: true, Report: report})
}

// Update decodes an UpdateCommand JSON body and merges it into the report
// matched by id, or by phone when no id is given.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[UpdateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.MapHTTPStatus(err), err)
		return
	}

	report, err := h.sys.Update(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reportResponse{OK: true, Report: report})
}

// List returns every report, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, listResponse{OK: true, Reports: items})
}

// UpdateStatus decodes a StatusCommand JSON body and applies the transition.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[StatusCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.MapHTTPStatus(err), err)
		return
	}

	report, err := h.sys.UpdateStatus(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reportResponse{OK: true, Report: report})
}

// Find returns a single report by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	report, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reportResponse{OK: true, Report: report})
}
