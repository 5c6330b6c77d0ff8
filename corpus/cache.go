package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"legal-assistant/config"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const keyPrefix = "corpus:"

// Cache stores extracted corpus text by key
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, text string) error
}

// CacheKey derives the cache key of a corpus URL
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// NewCache creates the cache backend selected by cfg
func NewCache(ctx context.Context, cfg config.Cache, logger *zap.Logger) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.TTL), nil
	case "redis":
		return NewRedisCache(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		}, logger)
	case "none":
		return NoopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown corpus cache backend %q", cfg.Backend)
	}
}

// MemoryCache keeps entries in process memory
type MemoryCache struct {
	items *cache.Cache
}

// NewMemoryCache creates an in-process cache. A non-positive ttl never expires.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{items: cache.New(cache.NoExpiration, 0)}
	}
	return &MemoryCache{items: cache.New(ttl, ttl/2)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return "", false, nil
	}
	text, ok := v.(string)
	return text, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key, text string) error {
	c.items.Set(key, text, cache.DefaultExpiration)
	return nil
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NoopCache) Set(context.Context, string, string) error { return nil }
