package service

import (
	"context"
	"fmt"
	"log/slog"

	"sheetline/internal/crosstab"
	"sheetline/internal/domain"
	"sheetline/internal/filter"
	"sheetline/internal/tabular"
)

// DatasetService owns the row pipeline: upload, preview, filter-derive,
// crosstab, and export of tabular files. Derivations are recorded as
// lineage edges.
type DatasetService struct {
	files   domain.FileRepository
	content domain.ContentStore
	lineage *LineageService
	logger  *slog.Logger
}

// NewDatasetService creates a new DatasetService.
func NewDatasetService(files domain.FileRepository, content domain.ContentStore, lineage *LineageService, logger *slog.Logger) *DatasetService {
	return &DatasetService{files: files, content: content, lineage: lineage, logger: logger}
}

// FilterOutcome describes a filter-derivation: the new file node plus how
// many rows survived.
type FilterOutcome struct {
	Node     *domain.FileNode
	Retained int
	Total    int
	// SoftErrors counts conditions that errored during evaluation and were
	// treated as non-matches (fail closed).
	SoftErrors int
}

// Upload validates and registers a new file. The raw bytes must decode as
// delimited text; the delimiter is sniffed from the header line.
func (s *DatasetService) Upload(ctx context.Context, principal domain.ContextPrincipal, name string, raw []byte) (*domain.FileNode, error) {
	if name == "" {
		return nil, domain.ErrValidation("file name is required")
	}
	text := string(raw)
	if _, err := tabular.Decode(text, tabular.Sniff(text)); err != nil {
		return nil, err
	}

	key := "blobs/" + domain.NewID()
	if err := s.content.Put(ctx, key, raw); err != nil {
		return nil, fmt.Errorf("store content for %s: %w", name, err)
	}

	node, err := s.files.Create(ctx, &domain.FileNode{
		OwnerID:     principal.ID,
		DisplayName: name,
		ContentKey:  key,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("file uploaded", "file", node.ID, "name", name, "owner", principal.ID)
	return node, nil
}

// List returns the principal's files, newest first.
func (s *DatasetService) List(ctx context.Context, principal domain.ContextPrincipal, page domain.PageRequest) ([]domain.FileNode, int64, error) {
	return s.files.ListByOwner(ctx, principal.ID, page)
}

// Preview returns the decoded columns and the first limit rows.
func (s *DatasetService) Preview(ctx context.Context, principal domain.ContextPrincipal, fileID string, limit int) (*domain.Dataset, error) {
	_, ds, err := s.load(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(ds.Rows) {
		ds.Rows = ds.Rows[:limit]
	}
	return ds, nil
}

// Filter derives a new file by applying per-column conditions to an
// existing one, and records a lineage edge from source to derivation.
// Condition parsing happens before any row is touched; a malformed
// expression is a ValidationError naming the column.
func (s *DatasetService) Filter(ctx context.Context, principal domain.ContextPrincipal, fileID string, conditions map[string]string, newName string) (*FilterOutcome, error) {
	if newName == "" {
		return nil, domain.ErrValidation("name for the derived file is required")
	}
	set, err := filter.ParseSet(conditions)
	if err != nil {
		return nil, err
	}

	source, ds, err := s.load(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}

	kept, diags := filter.Apply(ds.Rows, set)
	for _, d := range diags {
		s.logger.Debug("filter condition failed closed",
			"file", fileID, "column", d.Column, "error", d.Err)
	}

	derived := &domain.Dataset{Columns: ds.Columns, Rows: kept}
	key := "blobs/" + domain.NewID()
	if err := s.content.Put(ctx, key, []byte(tabular.Encode(derived, tabular.DefaultDelimiter))); err != nil {
		return nil, fmt.Errorf("store derived content: %w", err)
	}

	node, err := s.files.Create(ctx, &domain.FileNode{
		OwnerID:     principal.ID,
		DisplayName: newName,
		ContentKey:  key,
	})
	if err != nil {
		return nil, err
	}

	if err := s.lineage.Record(ctx, source.ID, node.ID, domain.RelationFilter); err != nil {
		return nil, err
	}

	return &FilterOutcome{
		Node:       node,
		Retained:   len(kept),
		Total:      len(ds.Rows),
		SoftErrors: len(diags),
	}, nil
}

// Crosstab builds a two-dimensional frequency table over two columns of
// the file.
func (s *DatasetService) Crosstab(ctx context.Context, principal domain.ContextPrincipal, fileID, rowColumn, colColumn string) (*domain.CrosstabResult, error) {
	_, ds, err := s.load(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}
	return crosstab.Build(ds, rowColumn, colColumn)
}

// Export re-encodes the file deterministically (comma-delimited, header
// order preserved) and returns the bytes with the display name.
func (s *DatasetService) Export(ctx context.Context, principal domain.ContextPrincipal, fileID string) (string, []byte, error) {
	node, ds, err := s.load(ctx, principal, fileID)
	if err != nil {
		return "", nil, err
	}
	return node.DisplayName, []byte(tabular.Encode(ds, tabular.DefaultDelimiter)), nil
}

// Delete removes a file and its stored content. Incident lineage edges
// cascade at the store.
func (s *DatasetService) Delete(ctx context.Context, principal domain.ContextPrincipal, fileID string) error {
	node, err := s.ownedNode(ctx, principal, fileID)
	if err != nil {
		return err
	}
	if err := s.content.Delete(ctx, node.ContentKey); err != nil {
		// The registry row is authoritative; a stale blob is only logged.
		s.logger.Warn("delete content failed", "file", fileID, "error", err)
	}
	return s.files.Delete(ctx, node.ID)
}

// load fetches the node with ownership enforced, then its decoded content.
func (s *DatasetService) load(ctx context.Context, principal domain.ContextPrincipal, fileID string) (*domain.FileNode, *domain.Dataset, error) {
	node, err := s.ownedNode(ctx, principal, fileID)
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.content.Get(ctx, node.ContentKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load content of %s: %w", fileID, err)
	}
	text := string(raw)
	ds, err := tabular.Decode(text, tabular.Sniff(text))
	if err != nil {
		return nil, nil, err
	}
	return node, ds, nil
}

// ownedNode enforces the uniform not-found contract for foreign files.
func (s *DatasetService) ownedNode(ctx context.Context, principal domain.ContextPrincipal, fileID string) (*domain.FileNode, error) {
	node, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if node.OwnerID != principal.ID {
		return nil, domain.ErrNotFound("file %s not found", fileID)
	}
	return node, nil
}
