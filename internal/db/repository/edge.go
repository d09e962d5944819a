package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sheetline/internal/domain"
)

var _ domain.EdgeRepository = (*EdgeRepo)(nil)

// EdgeRepo implements domain.EdgeRepository using SQLite. The edge table is
// append-only: this repo has no UPDATE or DELETE statements. Edge rows are
// removed only by the files table's ON DELETE CASCADE.
type EdgeRepo struct {
	db *sql.DB
}

// NewEdgeRepo creates a new EdgeRepo.
func NewEdgeRepo(db *sql.DB) *EdgeRepo {
	return &EdgeRepo{db: db}
}

// Append records a new lineage edge. Duplicate (source, target, relation)
// triples are allowed; traversal deduplicates on read.
func (r *EdgeRepo) Append(ctx context.Context, edge *domain.FileEdge) error {
	edge.ID = domain.NewID()
	edge.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO file_edges (id, source_id, target_id, relation_type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		edge.ID, edge.SourceID, edge.TargetID, edge.RelationType, edge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append edge %s -> %s: %w", edge.SourceID, edge.TargetID, err)
	}
	return nil
}

// ByNode returns every edge whose source or target is the given file.
func (r *EdgeRepo) ByNode(ctx context.Context, fileID string) ([]domain.FileEdge, error) {
	return r.ByNodes(ctx, []string{fileID})
}

// ByNodes returns every edge touching any of the given files.
func (r *EdgeRepo) ByNodes(ctx context.Context, fileIDs []string) ([]domain.FileEdge, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(fileIDs)-1) + "?"
	args := make([]any, 0, 2*len(fileIDs))
	for _, id := range fileIDs {
		args = append(args, id)
	}
	for _, id := range fileIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_id, target_id, relation_type, created_at
		 FROM file_edges
		 WHERE source_id IN (`+placeholders+`) OR target_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("edges by nodes: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var edges []domain.FileEdge
	for rows.Next() {
		var e domain.FileEdge
		if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.RelationType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
