package ristretto

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/gatehouse/gatehouse/cache"
)

// Cache adapts a ristretto cache to the cache.Cache interface. Keys are
// strings: IP addresses and session tokens are what the application
// caches.
type Cache[V any] struct {
	cache *ristretto.Cache[string, V]
}

func (rc *Cache[V]) Get(key string) (V, bool) {
	return rc.cache.Get(key)
}

func (rc *Cache[V]) Set(key string, value V, cost int64) bool {
	return rc.cache.Set(key, value, cost)
}

func (rc *Cache[V]) SetWithTTL(key string, value V, cost int64, ttl time.Duration) bool {
	return rc.cache.SetWithTTL(key, value, cost, ttl)
}

func (rc *Cache[V]) Del(key string) {
	rc.cache.Del(key)
}

// New creates a cache sized by level: "small", "medium", "large" or
// "very-large". Counters track roughly 10x the expected live keys.
func New[V any](level string) (cache.Cache[string, V], error) {
	var numCounters, maxCost int64

	switch level {
	case "small":
		numCounters, maxCost = 1e4, 1<<24
	case "medium":
		numCounters, maxCost = 1e5, 1<<26
	case "large":
		numCounters, maxCost = 1e6, 1<<28
	case "very-large":
		numCounters, maxCost = 1e7, 1<<30
	default:
		return nil, fmt.Errorf("ristretto: unknown cache level %q", level)
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{cache: c}, nil
}
