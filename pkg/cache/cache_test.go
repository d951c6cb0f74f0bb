package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jkessling/reachview/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestNullCacheReportsMisses(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := NewNullCache()
	defer c.Close()

	_, _, _ = c.Get(context.Background(), "render:abc")
	_, _, _ = c.Get(context.Background(), "render:abc")

	if hooks.misses != 2 {
		t.Errorf("misses = %d, want 2", hooks.misses)
	}
	if hooks.keyType != "render" {
		t.Errorf("keyType = %q, want %q", hooks.keyType, "render")
	}
}

// countingCacheHooks records cache events for assertions.
type countingCacheHooks struct {
	observability.NoopCacheHooks
	misses  int
	keyType string
}

func (h *countingCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.misses++
	h.keyType = keyType
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "artifact:abc", []byte("digraph G {}"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if string(data) != "digraph G {}" {
		t.Errorf("Get returned %q", data)
	}
}

func TestFileCacheMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	_, hit, err := c.Get(ctx, "nothing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("missing key should be a miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, hit, err := c.Get(ctx, "forever")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("x"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted key should be a miss")
	}

	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("other")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64 hex chars", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	opts := map[string]any{"format": "dot", "depth": 2}
	k1 := ArtifactKey("source-hash", opts)
	k2 := ArtifactKey("source-hash", opts)
	if k1 != k2 {
		t.Error("ArtifactKey should be deterministic")
	}
	if k1 == ArtifactKey("other-hash", opts) {
		t.Error("source hash must contribute to the key")
	}
	if k1 == ArtifactKey("source-hash", map[string]any{"format": "svg", "depth": 2}) {
		t.Error("options must contribute to the key")
	}
}
