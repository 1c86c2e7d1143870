package cache

import (
	"context"
	"time"
)

// NullCache satisfies [Cache] without retaining anything: every Get
// misses and every Set is discarded. It backs --no-cache runs and the
// serve command's "none" backend, and spares callers nil checks when
// caching is off.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns the disabled cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get reports a miss for every key.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the data.
func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to delete.
func (NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (NullCache) Close() error {
	return nil
}
