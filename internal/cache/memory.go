package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache backed by go-cache.
type MemoryCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

// NewMemoryCache creates an in-memory cache. Entries without an explicit
// TTL expire after defaultTTL; expired entries are purged every
// defaultTTL/2 (minimum one minute).
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	cleanup := defaultTTL / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryCache{
		store:      gocache.New(defaultTTL, cleanup),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	v, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

// Set stores value under key. A non-positive ttl uses the default TTL.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.store.Set(key, value, ttl)
}

// Delete removes key from the cache.
func (c *MemoryCache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.store.Flush()
}

// ItemCount reports the number of entries, including any not yet purged.
func (c *MemoryCache) ItemCount() int {
	return c.store.ItemCount()
}
