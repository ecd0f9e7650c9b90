package factory

import (
	"fmt"
	"time"

	"github.com/pocketlab/organic-scanner/internal/adapters/cache"
	"github.com/pocketlab/organic-scanner/internal/config"
	"github.com/pocketlab/organic-scanner/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates the scan result cache based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateResultCache creates the result cache
func (f *CacheFactory) CreateResultCache() (core.ResultCache, error) {
	ttl, err := f.GetCacheTTL()
	if err != nil {
		return nil, err
	}
	cleanupFreq, err := f.cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return cache.NewMemoryCache(f.logger, ttl, cleanupFreq), nil
}

// GetCacheTTL returns the configured cache TTL
func (f *CacheFactory) GetCacheTTL() (time.Duration, error) {
	ttl, err := f.cfg.GetDuration("cache.ttl")
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl: %w", err)
	}
	return ttl, nil
}

// IsCacheEnabled returns whether result caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetBool("cache.enabled")
}
