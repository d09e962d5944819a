// Package repository implements the domain repository interfaces over SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sheetline/internal/domain"
)

var _ domain.FileRepository = (*FileRepo)(nil)

// FileRepo implements domain.FileRepository using SQLite.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// Create inserts a new file node. The node's ID and CreatedAt are assigned
// here.
func (r *FileRepo) Create(ctx context.Context, node *domain.FileNode) (*domain.FileNode, error) {
	created := *node
	created.ID = domain.NewID()
	created.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (id, owner_id, display_name, content_key, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		created.ID, created.OwnerID, created.DisplayName, created.ContentKey, created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return &created, nil
}

// GetByID returns a file node by its ID.
func (r *FileRepo) GetByID(ctx context.Context, id string) (*domain.FileNode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, display_name, content_key, created_at
		 FROM files WHERE id = ?`, id)

	var node domain.FileNode
	err := row.Scan(&node.ID, &node.OwnerID, &node.DisplayName, &node.ContentKey, &node.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("file %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	return &node, nil
}

// GetByIDs returns the file nodes for the given IDs in one query. IDs with
// no matching row are silently absent from the result.
func (r *FileRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.FileNode, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, display_name, content_key, created_at
		 FROM files WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("get files: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var nodes []domain.FileNode
	for rows.Next() {
		var node domain.FileNode
		if err := rows.Scan(&node.ID, &node.OwnerID, &node.DisplayName, &node.ContentKey, &node.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// ListByOwner returns a paginated list of an owner's files, newest first.
func (r *FileRepo) ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.FileNode, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM files WHERE owner_id = ?`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, display_name, content_key, created_at
		 FROM files WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var nodes []domain.FileNode
	for rows.Next() {
		var node domain.FileNode
		if err := rows.Scan(&node.ID, &node.OwnerID, &node.DisplayName, &node.ContentKey, &node.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan file: %w", err)
		}
		nodes = append(nodes, node)
	}
	return nodes, total, rows.Err()
}

// Delete removes a file node. Incident edges cascade at the schema level.
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("file %s not found", id)
	}
	return nil
}
