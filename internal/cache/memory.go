package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PageCache is an in-memory TTL cache for raw page bodies. Detail pages are
// immutable enough within one batch that a short TTL never serves a stale
// price; nothing is persisted across runs.
type PageCache struct {
	cache *gocache.Cache
}

// NewPageCache creates a page cache with the given default TTL.
func NewPageCache(defaultTTL time.Duration) *PageCache {
	return &PageCache{
		cache: gocache.New(defaultTTL, 10*time.Minute),
	}
}

// Get retrieves a cached page body.
func (c *PageCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a page body. A zero TTL uses the cache default.
func (c *PageCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes one entry.
func (c *PageCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops every entry.
func (c *PageCache) Clear() error {
	c.cache.Flush()
	return nil
}
