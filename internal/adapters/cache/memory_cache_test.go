package cache_test

import (
	"testing"
	"time"

	"github.com/pocketlab/organic-scanner/internal/adapters/cache"
	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := cache.NewMemoryCache(zap.NewNop(), time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	want := &core.Prediction{Fruit: "Apple", OrganicStatus: core.StatusOrganic, FruitConfidence: 0.95, OrganicConfidence: 0.87}
	c.Set("key", want, time.Minute)

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := cache.NewMemoryCache(zap.NewNop(), time.Minute, time.Minute)
	c.Set("key", &core.Prediction{Fruit: "Banana"}, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestMemoryCacheFlush(t *testing.T) {
	c := cache.NewMemoryCache(zap.NewNop(), time.Minute, time.Minute)
	c.Set("key", &core.Prediction{Fruit: "Tomato"}, time.Minute)

	c.Flush()
	_, ok := c.Get("key")
	assert.False(t, ok)
}
