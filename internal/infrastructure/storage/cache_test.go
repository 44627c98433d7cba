package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, ttl time.Duration) *ResponseCache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "nested", "responses.db"), ttl)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "https://example.org/a"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	body := []byte(`[{"page":1},[]]`)
	if err := cache.Put(ctx, "https://example.org/a", body); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := cache.Get(ctx, "https://example.org/a")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("body mismatch: %s", got)
	}
}

func TestCachePutOverwrites(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "k", []byte("old")); err != nil {
		t.Fatalf("put old: %v", err)
	}
	if err := cache.Put(ctx, "k", []byte("new")); err != nil {
		t.Fatalf("put new: %v", err)
	}

	got, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != "new" {
		t.Fatalf("upsert did not overwrite: %s", got)
	}
}

func TestCacheExpiryPrunesEntry(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}

	cache.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	if _, ok, err := cache.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected expired miss, got ok=%v err=%v", ok, err)
	}

	// The expired row is gone even when read with a fresh clock.
	cache.now = func() time.Time { return time.Now().UTC() }
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatal("expired entry was not pruned")
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, 0)
	ctx := context.Background()

	if err := cache.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	cache.now = func() time.Time { return time.Now().UTC().Add(1000 * time.Hour) }

	if _, ok, err := cache.Get(ctx, "k"); err != nil || !ok {
		t.Fatalf("zero TTL must never expire, got ok=%v err=%v", ok, err)
	}
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "responses.db")

	cache, err := Open(path, time.Hour)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := cache.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(context.Background(), "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("entry lost across reopen: ok=%v err=%v body=%s", ok, err, got)
	}
}
