// Package cache stores registry metadata responses between runs.
//
// Only read-only lookups are cached (for example the PyPI release listing);
// downloads and publishes always hit the registry. Caching is disabled by
// default because a stale version list would silently drop versions
// published after the cache entry was written.
//
// Backends:
//   - [NullCache]: no-op, the default
//   - [FileCache]: one JSON file per key under the user cache directory
//   - [RedisCache]: shared cache in Redis
//   - [MongoCache]: shared cache in a MongoDB collection
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get returns (nil, false, nil) on a miss or an expired entry. Errors are
// reserved for backend failures; callers treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend  string // one of the Backend* constants; empty means none
	Dir      string // FileCache directory
	RedisURL string // redis://[user:pass@]host:port/db
	MongoURI string // mongodb://host:port
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
