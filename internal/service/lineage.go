// Package service implements the platform's use cases over the repository
// and content-store ports.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"sheetline/internal/domain"
)

// LineageService records derivation edges between files and answers
// lineage queries scoped to a single owner.
type LineageService struct {
	files  domain.FileRepository
	edges  domain.EdgeRepository
	logger *slog.Logger
}

// NewLineageService creates a new LineageService.
func NewLineageService(files domain.FileRepository, edges domain.EdgeRepository, logger *slog.Logger) *LineageService {
	return &LineageService{files: files, edges: edges, logger: logger}
}

// Record appends a derivation edge. Redundant (source, target, relation)
// triples are accepted; queries deduplicate on read.
func (s *LineageService) Record(ctx context.Context, sourceID, targetID, relationType string) error {
	edge := &domain.FileEdge{
		SourceID:     sourceID,
		TargetID:     targetID,
		RelationType: relationType,
	}
	if err := s.edges.Append(ctx, edge); err != nil {
		return fmt.Errorf("record lineage: %w", err)
	}
	s.logger.Debug("lineage edge recorded",
		"source", sourceID, "target", targetID, "relation", relationType)
	return nil
}

// Direct returns the edges directly incident to the file, in both
// directions. An edge whose other endpoint is not owned by the requester is
// excluded entirely, never partially redacted.
func (s *LineageService) Direct(ctx context.Context, principal domain.ContextPrincipal, fileID string) (*domain.LineageGraph, error) {
	root, err := s.ownedFile(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}

	incident, err := s.edges.ByNode(ctx, root.ID)
	if err != nil {
		return nil, fmt.Errorf("direct lineage of %s: %w", fileID, err)
	}

	owned, err := s.ownedEndpoints(ctx, principal, root, incident)
	if err != nil {
		return nil, err
	}

	graph := &domain.LineageGraph{RootID: root.ID, Nodes: []domain.FileNode{*root}}
	seenEdge := map[edgeKey]bool{}
	seenNode := map[string]bool{root.ID: true}
	for _, e := range incident {
		src, srcOK := owned[e.SourceID]
		dst, dstOK := owned[e.TargetID]
		if !srcOK || !dstOK {
			continue
		}
		key := edgeKey{e.SourceID, e.TargetID, e.RelationType}
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		graph.Edges = append(graph.Edges, e)
		for _, node := range []domain.FileNode{src, dst} {
			if !seenNode[node.ID] {
				seenNode[node.ID] = true
				graph.Nodes = append(graph.Nodes, node)
			}
		}
	}
	return graph, nil
}

// Complete traverses the transitive closure of the file's lineage,
// following edges in both directions. The traversal keeps a visited set
// keyed by file id and never re-expands a node — required both so duplicate
// edges are not double-counted and so cycles terminate. Nodes owned by
// other principals are silently excluded and never expanded past.
func (s *LineageService) Complete(ctx context.Context, principal domain.ContextPrincipal, fileID string) (*domain.LineageGraph, error) {
	root, err := s.ownedFile(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}

	visited := map[string]domain.FileNode{root.ID: *root}
	order := []string{root.ID}
	seenEdge := map[edgeKey]bool{}
	var resultEdges []domain.FileEdge

	frontier := []string{root.ID}
	for len(frontier) > 0 {
		incident, err := s.edges.ByNodes(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("complete lineage of %s: %w", fileID, err)
		}

		// Resolve endpoints not seen yet, keeping only the requester's.
		var unknown []string
		unknownSeen := map[string]bool{}
		for _, e := range incident {
			for _, id := range []string{e.SourceID, e.TargetID} {
				if _, ok := visited[id]; !ok && !unknownSeen[id] {
					unknownSeen[id] = true
					unknown = append(unknown, id)
				}
			}
		}
		discovered, err := s.files.GetByIDs(ctx, unknown)
		if err != nil {
			return nil, fmt.Errorf("complete lineage of %s: %w", fileID, err)
		}

		frontier = frontier[:0]
		for _, node := range discovered {
			if node.OwnerID != principal.ID {
				continue
			}
			visited[node.ID] = node
			order = append(order, node.ID)
			frontier = append(frontier, node.ID)
		}

		for _, e := range incident {
			if _, ok := visited[e.SourceID]; !ok {
				continue
			}
			if _, ok := visited[e.TargetID]; !ok {
				continue
			}
			key := edgeKey{e.SourceID, e.TargetID, e.RelationType}
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			resultEdges = append(resultEdges, e)
		}
	}

	graph := &domain.LineageGraph{RootID: root.ID, Edges: resultEdges}
	for _, id := range order {
		graph.Nodes = append(graph.Nodes, visited[id])
	}
	return graph, nil
}

type edgeKey struct {
	source, target, relation string
}

// ownedFile loads a file and enforces ownership. Nonexistent and
// not-owned produce the identical NotFoundError so other owners' files
// cannot be probed.
func (s *LineageService) ownedFile(ctx context.Context, principal domain.ContextPrincipal, fileID string) (*domain.FileNode, error) {
	node, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if node.OwnerID != principal.ID {
		return nil, domain.ErrNotFound("file %s not found", fileID)
	}
	return node, nil
}

// ownedEndpoints resolves the non-root endpoints of the given edges and
// returns the requester-owned ones keyed by id, root included.
func (s *LineageService) ownedEndpoints(ctx context.Context, principal domain.ContextPrincipal, root *domain.FileNode, edges []domain.FileEdge) (map[string]domain.FileNode, error) {
	var ids []string
	seen := map[string]bool{root.ID: true}
	for _, e := range edges {
		for _, id := range []string{e.SourceID, e.TargetID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	nodes, err := s.files.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve lineage endpoints: %w", err)
	}

	owned := map[string]domain.FileNode{root.ID: *root}
	for _, node := range nodes {
		if node.OwnerID == principal.ID {
			owned[node.ID] = node
		}
	}
	return owned, nil
}
