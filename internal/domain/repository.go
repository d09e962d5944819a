package domain

import "context"

// FileRepository persists file nodes.
type FileRepository interface {
	Create(ctx context.Context, node *FileNode) (*FileNode, error)
	GetByID(ctx context.Context, id string) (*FileNode, error)
	GetByIDs(ctx context.Context, ids []string) ([]FileNode, error)
	ListByOwner(ctx context.Context, ownerID string, page PageRequest) ([]FileNode, int64, error)
	Delete(ctx context.Context, id string) error
}

// EdgeRepository persists lineage edges. The interface is deliberately
// narrow: append and query only, no update or delete.
type EdgeRepository interface {
	Append(ctx context.Context, edge *FileEdge) error
	// ByNode returns every edge whose source or target is the given file.
	ByNode(ctx context.Context, fileID string) ([]FileEdge, error)
	// ByNodes returns every edge touching any of the given files, in one
	// query, for traversal frontier expansion.
	ByNodes(ctx context.Context, fileIDs []string) ([]FileEdge, error)
}

// ContentStore holds the raw bytes of registered files. Implementations:
// local filesystem, S3.
type ContentStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
