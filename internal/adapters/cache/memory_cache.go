package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pocketlab/organic-scanner/internal/core"
	"go.uber.org/zap"
)

// MemoryCache is an in-memory implementation of the core.ResultCache
// interface. Expired entries are evicted by a background janitor owned by
// the underlying cache.
type MemoryCache struct {
	entries *gocache.Cache
	logger  *zap.Logger
}

// NewMemoryCache creates a new in-memory result cache.
func NewMemoryCache(logger *zap.Logger, defaultTTL, cleanupFreq time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: gocache.New(defaultTTL, cleanupFreq),
		logger:  logger,
	}
}

// Get retrieves a cached prediction for a sample key.
func (c *MemoryCache) Get(key string) (*core.Prediction, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	result, ok := v.(*core.Prediction)
	return result, ok
}

// Set stores a prediction under a sample key.
func (c *MemoryCache) Set(key string, result *core.Prediction, ttl time.Duration) {
	c.entries.Set(key, result, ttl)
}

// Flush removes all entries.
func (c *MemoryCache) Flush() {
	c.entries.Flush()
	c.logger.Debug("Result cache flushed")
}
