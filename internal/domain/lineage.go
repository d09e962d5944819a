package domain

import "time"

// Relation types the services write. Append is free-form; these are the
// conventional values.
const (
	RelationUpload   = "upload"
	RelationFilter   = "filter"
	RelationCrosstab = "crosstab"
	RelationMerge    = "merge"
)

// FileNode is a registered file. Immutable once created; deleted only by
// explicit owner action (deletion cascades to incident edges at the store).
type FileNode struct {
	ID          string
	OwnerID     string
	DisplayName string
	ContentKey  string // key into the content store, opaque to callers
	CreatedAt   time.Time
}

// FileEdge is a directed, typed derivation edge between two files.
// Edges are append-only: never mutated or deleted by the engine. Duplicate
// (source, target, relation) triples are redundant, not erroneous.
type FileEdge struct {
	ID           string
	SourceID     string
	TargetID     string
	RelationType string
	CreatedAt    time.Time
}

// LineageGraph is the result of a lineage traversal: the reachable nodes
// and deduplicated edges, restricted to a single owner's files.
type LineageGraph struct {
	RootID string
	Nodes  []FileNode
	Edges  []FileEdge
}
