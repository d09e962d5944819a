package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sheetline/internal/domain"
)

type lineageNodeResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type lineageEdgeResponse struct {
	SourceID     string `json:"source_id"`
	TargetID     string `json:"target_id"`
	RelationType string `json:"relation_type"`
}

// fileLineage returns the lineage graph for a file. The ?mode= parameter
// selects direct (one hop, the default) or complete (full transitive
// closure) traversal.
func (h *Handler) fileLineage(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var (
		graph *domain.LineageGraph
		err   error
	)
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "direct":
		graph, err = h.lineage.Direct(r.Context(), principal, chi.URLParam(r, "id"))
	case "complete":
		graph, err = h.lineage.Complete(r.Context(), principal, chi.URLParam(r, "id"))
	default:
		err = domain.ErrValidation("unknown lineage mode %q", mode)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	nodes := make([]lineageNodeResponse, len(graph.Nodes))
	for i, n := range graph.Nodes {
		nodes[i] = lineageNodeResponse{ID: n.ID, DisplayName: n.DisplayName}
	}
	edges := make([]lineageEdgeResponse, len(graph.Edges))
	for i, e := range graph.Edges {
		edges[i] = lineageEdgeResponse{SourceID: e.SourceID, TargetID: e.TargetID, RelationType: e.RelationType}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"root_id": graph.RootID,
		"nodes":   nodes,
		"edges":   edges,
	})
}
