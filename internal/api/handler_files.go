package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sheetline/internal/domain"
)

// maxUploadBytes bounds a single uploaded file.
const maxUploadBytes = 64 << 20

type fileResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func fileToAPI(n domain.FileNode) fileResponse {
	return fileResponse{ID: n.ID, DisplayName: n.DisplayName, CreatedAt: n.CreatedAt}
}

// uploadFile accepts the raw file bytes in the request body; the display
// name comes from the ?name= query parameter or the X-File-Name header.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = r.Header.Get("X-File-Name")
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(raw) > maxUploadBytes {
		h.writeError(w, domain.ErrValidation("file exceeds %d bytes", maxUploadBytes))
		return
	}

	node, err := h.datasets.Upload(r.Context(), principal, name, raw)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, fileToAPI(*node))
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	page := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, domain.ErrValidation("max_results %q is not a number", v))
			return
		}
		page.MaxResults = n
	}

	nodes, total, err := h.datasets.List(r.Context(), principal, page)
	if err != nil {
		h.writeError(w, err)
		return
	}

	files := make([]fileResponse, len(nodes))
	for i, n := range nodes {
		files[i] = fileToAPI(n)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"files":           files,
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

func (h *Handler) previewFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, domain.ErrValidation("limit %q is not a valid row count", v))
			return
		}
		limit = n
	}

	ds, err := h.datasets.Preview(r.Context(), principal, chi.URLParam(r, "id"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"columns": ds.Columns,
		"rows":    ds.Rows,
	})
}

type filterRequest struct {
	Conditions map[string]string `json:"conditions"`
	Name       string            `json:"name"`
}

func (h *Handler) filterFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	outcome, err := h.datasets.Filter(r.Context(), principal, chi.URLParam(r, "id"), req.Conditions, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"file":        fileToAPI(*outcome.Node),
		"retained":    outcome.Retained,
		"total":       outcome.Total,
		"soft_errors": outcome.SoftErrors,
	})
}

type crosstabRequest struct {
	RowColumn string `json:"row_column"`
	ColColumn string `json:"col_column"`
}

func (h *Handler) crosstabFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req crosstabRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	res, err := h.datasets.Crosstab(r.Context(), principal, chi.URLParam(r, "id"), req.RowColumn, req.ColColumn)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"row_column":  res.RowColumn,
		"col_column":  res.ColColumn,
		"grid":        res.Grid,
		"row_totals":  res.RowTotals,
		"col_totals":  res.ColTotals,
		"grand_total": res.GrandTotal,
		"row_pct":     res.RowPct,
		"col_pct":     res.ColPct,
		"total_pct":   res.TotalPct,
	})
}

func (h *Handler) exportFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	name, data, err := h.datasets.Export(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write export", "error", err)
	}
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.datasets.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
