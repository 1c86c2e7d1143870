// Package cache provides content-addressed caching for analysis results
// and rendered artifacts.
//
// One interface, four backends: [FileCache] for the CLI (XDG cache dir),
// [MemoryCache] for the server's hot path (LRU with per-entry expiry),
// [RedisCache] for shared deployments, and [NullCache] to disable caching
// entirely. Keys are produced by a [Keyer] from content hashes, so a CFG
// that hashes the same always maps to the same analysis entry.
package cache

import (
	"context"
	"time"
)

// TTLs per entry class. Analyses are pure functions of their input and
// could live forever; the TTLs just bound disk usage.
const (
	// TTLGraph is how long cached CFG documents live.
	TTLGraph = 30 * 24 * time.Hour

	// TTLAnalysis is how long cached DJ-graph documents live.
	TTLAnalysis = 30 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (DOT, SVG, PNG) live.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface all backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present (and unexpired).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live. A zero ttl means
	// no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
