package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/pocketlab/organic-scanner/internal/config"
	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/pocketlab/organic-scanner/internal/factory"
	"github.com/pocketlab/organic-scanner/internal/forest"
	"github.com/pocketlab/organic-scanner/internal/httpapi"
	"github.com/pocketlab/organic-scanner/internal/logging"
	"github.com/pocketlab/organic-scanner/internal/telemetry"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(telemetry.NewMetrics); err != nil {
		return nil, err
	}

	// Register model store
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.ModelProvider {
		return forest.NewStore(cfg.GetModels().Dir, logger)
	}); err != nil {
		return nil, err
	}

	// Register cache factory
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register result cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ResultCache, error) {
		return f.CreateResultCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register scan service
	if err := container.Provide(core.NewScanService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(httpapi.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
