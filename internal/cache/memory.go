package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

// MemoryCache keeps parsed notebooks in process memory
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a document from the cache
func (c *MemoryCache) Get(key string) (*model.Document, bool) {
	if val, found := c.cache.Get(key); found {
		doc, ok := val.(*model.Document)
		return doc, ok
	}
	return nil, false
}

// Set stores a document; a zero ttl uses the cache default
func (c *MemoryCache) Set(key string, doc *model.Document, ttl time.Duration) {
	c.cache.Set(key, doc, ttl)
}
