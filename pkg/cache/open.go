package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open creates the cache backend described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory not set")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis cache: redis_url not set")
		}
		c, err := NewRedisCache(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache: mongo_uri not set")
		}
		c, err := NewMongoCache(ctx, opts.MongoURI, DefaultMongoDatabase, DefaultMongoCollection)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
