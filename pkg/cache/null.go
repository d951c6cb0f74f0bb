package cache

import (
	"context"
	"time"

	"github.com/jkessling/reachview/pkg/observability"
)

// NullCache is the backend behind --no-cache: every artifact lookup
// misses, so the pipeline re-renders on each run. It still reports
// misses through the cache hooks so instrumentation sees uncached runs.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	observability.Cache().OnCacheMiss(ctx, keyType(key))
	return nil, false, nil
}

// Set discards the artifact.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
