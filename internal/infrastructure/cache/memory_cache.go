package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
)

const memoryBackend = "memory"

// MemoryCache is the in-process decision cache backend.
type MemoryCache struct {
	store   *gocache.Cache
	ttl     time.Duration
	metrics *monitoring.Metrics
}

// NewMemoryCache creates an in-process decision cache with the given TTL.
func NewMemoryCache(ttl time.Duration, metrics *monitoring.Metrics) *MemoryCache {
	return &MemoryCache{
		store:   gocache.New(ttl, 2*ttl),
		ttl:     ttl,
		metrics: metrics,
	}
}

// Get implements DecisionCache.
func (c *MemoryCache) Get(ctx context.Context, key string) (*models.AuthDecision, bool) {
	item, found := c.store.Get(key)
	if !found {
		c.metrics.RecordCacheEvent(memoryBackend, "miss")
		return nil, false
	}

	decision, ok := item.(*models.AuthDecision)
	if !ok || decision.Expired(time.Now()) {
		c.metrics.RecordCacheEvent(memoryBackend, "miss")
		return nil, false
	}

	c.metrics.RecordCacheEvent(memoryBackend, "hit")
	return decision, true
}

// Set implements DecisionCache.
func (c *MemoryCache) Set(ctx context.Context, key string, decision *models.AuthDecision) {
	c.store.Set(key, decision, c.ttl)
}
