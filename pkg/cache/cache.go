// Package cache provides artifact caching for the reachview pipeline.
//
// The pipeline is a pure function from (source text, options) to output
// artifacts, so artifacts can be cached under a hash of their inputs and
// reused on repeated invocations against the same graph dump.
//
// Two implementations exist:
//   - FileCache: stores entries under a directory, for CLI usage
//   - NullCache: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// TTLArtifact bounds how long rendered artifacts stay valid. Artifacts are
// keyed on a content hash, so expiry exists only to keep the cache
// directory from growing without bound.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is the storage interface for pipeline artifacts.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
