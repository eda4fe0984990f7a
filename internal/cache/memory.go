package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/normregion/internal/model"
)

// MemoryCache implements in-memory TTL caching of curves
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a curve from the cache
func (c *MemoryCache) Get(key string) ([]model.Point, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]model.Point), true
	}
	return nil, false
}

// Set stores a curve with the given TTL (0 uses the default)
func (c *MemoryCache) Set(key string, curve []model.Point, ttl time.Duration) error {
	c.cache.Set(key, curve, ttl)
	return nil
}

// Delete removes a curve from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all curves from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len returns the number of cached curves, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
