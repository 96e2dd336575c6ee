package broll

import (
	"context"
	"os"
	"testing"
	"time"

	"clipforge/script"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "pexels", "city", script.KindVideo); ok {
		t.Fatal("empty cache should miss")
	}

	items := []MediaItem{{URL: "https://example.com/a.mp4", Duration: 12}}
	cache.Put(ctx, "pexels", "city", script.KindVideo, items)

	got, ok := cache.Get(ctx, "pexels", "city", script.KindVideo)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].URL != items[0].URL || got[0].Duration != items[0].Duration {
		t.Fatalf("cached items = %+v; want %+v", got, items)
	}

	// Same query, different kind or provider is a distinct entry.
	if _, ok := cache.Get(ctx, "pexels", "city", script.KindImage); ok {
		t.Fatal("kind should be part of the cache key")
	}
	if _, ok := cache.Get(ctx, "pixabay", "city", script.KindVideo); ok {
		t.Fatal("provider should be part of the cache key")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	cache.Put(ctx, "pexels", "old", script.KindVideo, []MediaItem{{URL: "u"}})

	// Age the entry past the TTL via its mtime.
	path := cache.path("pexels", "old", script.KindVideo)
	stale := time.Now().Add(-25 * time.Hour)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get(ctx, "pexels", "old", script.KindVideo); ok {
		t.Fatal("stale entry should miss")
	}
}
