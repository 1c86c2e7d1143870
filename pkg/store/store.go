// Package store persists analysis records for the FlowLens HTTP API.
//
// A [Record] pairs the input CFG document with the DJ-graph the pipeline
// built from it, under a stable UUID. Two implementations exist:
// [MemoryStore] for development and tests, and [MongoStore] for real
// deployments. Both are safe for concurrent use.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/djgraph"
)

// ErrNotFound is returned by [Store.Get] and [Store.Delete] when no
// record has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Stats summarizes an analysis for listings, so clients don't need to
// fetch the full documents to show an overview.
type Stats struct {
	VertexCount    int   `json:"vertex_count" bson:"vertex_count"`
	EdgeCount      int   `json:"edge_count" bson:"edge_count"`
	DominanceEdges int   `json:"dominance_edges" bson:"dominance_edges"`
	BackJoins      int   `json:"back_joins" bson:"back_joins"`
	CrossJoins     int   `json:"cross_joins" bson:"cross_joins"`
	BuildMillis    int64 `json:"build_ms" bson:"build_ms"`
}

// Record is one stored analysis: the CFG that came in, the DJ-graph that
// came out, and bookkeeping.
type Record struct {
	ID        string           `json:"id" bson:"id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	GraphHash string           `json:"graph_hash" bson:"graph_hash"`
	Input     cfg.Document     `json:"input" bson:"input"`
	Result    djgraph.Document `json:"result" bson:"result"`
	Stats     Stats            `json:"stats" bson:"stats"`
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// Store is the persistence interface the API serves from.
type Store interface {
	// Put inserts a record. The record's ID must be set and unique.
	Put(ctx context.Context, rec Record) error

	// Get fetches a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first. A limit of 0
	// means no limit.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
