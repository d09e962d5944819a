// Package api provides the HTTP handlers for the file platform REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sheetline/internal/domain"
	"sheetline/internal/service"
)

// Handler serves the /v1 API.
type Handler struct {
	datasets *service.DatasetService
	lineage  *service.LineageService
	logger   *slog.Logger
}

// NewHandler creates a Handler with its service dependencies.
func NewHandler(datasets *service.DatasetService, lineage *service.LineageService, logger *slog.Logger) *Handler {
	return &Handler{datasets: datasets, lineage: lineage, logger: logger}
}

// Routes registers all endpoints on the router. Authentication middleware
// is the caller's responsibility; every route here expects a principal in
// the request context.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/files", h.uploadFile)
	r.Get("/files", h.listFiles)
	r.Get("/files/{id}/preview", h.previewFile)
	r.Post("/files/{id}/filter", h.filterFile)
	r.Post("/files/{id}/crosstab", h.crosstabFile)
	r.Get("/files/{id}/export", h.exportFile)
	r.Get("/files/{id}/lineage", h.fileLineage)
	r.Delete("/files/{id}", h.deleteFile)
}

// --- helpers ---

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the log, not the response.
		h.logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	h.writeJSON(w, status, map[string]any{"code": status, "message": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %s", err)
	}
	return nil
}

// principal extracts the authenticated identity, guarding against routes
// mounted without the auth middleware.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (domain.ContextPrincipal, bool) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{
			"code": http.StatusUnauthorized, "message": "unauthorized",
		})
	}
	return p, ok
}
