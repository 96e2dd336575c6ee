package broll

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"clipforge/config"
	"clipforge/script"
)

// Cache stores search results so repeated queries within the TTL do not cost
// another API call.
type Cache interface {
	Get(ctx context.Context, provider, query string, kind script.MediaKind) ([]MediaItem, bool)
	Put(ctx context.Context, provider, query string, kind script.MediaKind, items []MediaItem)
}

func cacheKey(provider, query string, kind script.MediaKind) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%s", provider, query, kind)))
	return hex.EncodeToString(sum[:])
}

// DiskCache keeps JSON-encoded responses under a cache directory. Entry age
// is derived from file mtime.
type DiskCache struct {
	dir string
	ttl time.Duration
}

func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &DiskCache{dir: dir, ttl: config.SearchCacheTTL}, nil
}

func (c *DiskCache) path(provider, query string, kind script.MediaKind) string {
	return filepath.Join(c.dir, cacheKey(provider, query, kind)+".json")
}

func (c *DiskCache) Get(_ context.Context, provider, query string, kind script.MediaKind) ([]MediaItem, bool) {
	path := c.path(provider, query, kind)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var items []MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *DiskCache) Put(_ context.Context, provider, query string, kind script.MediaKind, items []MediaItem) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := os.WriteFile(c.path(provider, query, kind), data, 0o644); err != nil {
		log.Warn().Err(err).Str("provider", provider).Str("query", query).Msg("search cache write failed")
	}
}

// RedisCache shares search results across worker processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, ttl: config.SearchCacheTTL}
}

func (c *RedisCache) Get(ctx context.Context, provider, query string, kind script.MediaKind) ([]MediaItem, bool) {
	data, err := c.client.Get(ctx, "broll:search:"+cacheKey(provider, query, kind)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *RedisCache) Put(ctx context.Context, provider, query string, kind script.MediaKind, items []MediaItem) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, "broll:search:"+cacheKey(provider, query, kind), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("provider", provider).Str("query", query).Msg("redis cache write failed")
	}
}
