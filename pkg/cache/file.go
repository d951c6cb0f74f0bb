package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jkessling/reachview/pkg/observability"
)

// FileCache implements a file-based cache for CLI usage.
// Cache entries are stored as files in a directory with metadata (expiration).
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// cacheEntry wraps cached data with metadata.
type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Invalid cache entry - treat as miss
		_ = os.Remove(path)
		observability.Cache().OnCacheMiss(ctx, keyType(key))
		return nil, false, nil
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		observability.Cache().OnCacheMiss(ctx, keyType(key))
		return nil, false, nil
	}

	observability.Cache().OnCacheHit(ctx, keyType(key))
	return entry.Data, true, nil
}

// Set stores a value in the cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(path, entryData, 0644); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op for the file cache.
func (c *FileCache) Close() error { return nil }

// path maps a key to its file location. Keys are hashed file names, so
// no escaping is needed beyond the hash itself.
func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, Hash([]byte(key))+".json")
}

// keyType extracts the namespace prefix from a key for hook reporting.
func keyType(key string) string {
	if prefix, _, ok := strings.Cut(key, ":"); ok {
		return prefix
	}
	return key
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
