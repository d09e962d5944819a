// Package storage implements the content store port: local filesystem for
// development, S3-compatible object storage for production.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sheetline/internal/domain"
)

var _ domain.ContentStore = (*LocalStore)(nil)

// LocalStore keeps file content under a root directory, one file per key.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create content root %s: %w", dir, err)
	}
	return &LocalStore{root: dir}, nil
}

// Put writes the content for a key, replacing any previous content.
func (s *LocalStore) Put(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write content %s: %w", key, err)
	}
	return nil
}

// Get reads the content for a key.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // key is validated against traversal
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound("content %s not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the content for a key. Deleting absent content is not an
// error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete content %s: %w", key, err)
	}
	return nil
}

// path maps a key to a filesystem path, rejecting traversal outside root.
func (s *LocalStore) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", domain.ErrValidation("invalid content key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
