package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

const redisBackend = "redis"

// RedisCache is the shared decision cache backend for multi-instance
// deployments. Entries are JSON-encoded with a server-side TTL. The raw
// identity-source value is hashed before it is used as a key so credentials
// never land in the store.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	log     logger.Logger
	metrics *monitoring.Metrics
}

// NewRedisCache creates a Redis-backed decision cache with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger, metrics *monitoring.Metrics) *RedisCache {
	return &RedisCache{
		client:  client,
		ttl:     ttl,
		log:     log.WithComponent("decision-cache"),
		metrics: metrics,
	}
}

// Get implements DecisionCache. Any Redis failure degrades to a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.AuthDecision, bool) {
	val, err := c.client.Get(ctx, c.cacheKey(key)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn(ctx, "decision cache read failed, treating as miss", logger.Error(err))
		}
		c.metrics.RecordCacheEvent(redisBackend, "miss")
		return nil, false
	}

	var decision models.AuthDecision
	if err := json.Unmarshal([]byte(val), &decision); err != nil {
		c.log.Warn(ctx, "corrupt decision cache entry, treating as miss", logger.Error(err))
		c.metrics.RecordCacheEvent(redisBackend, "miss")
		return nil, false
	}
	if decision.Expired(time.Now()) {
		c.metrics.RecordCacheEvent(redisBackend, "miss")
		return nil, false
	}

	c.metrics.RecordCacheEvent(redisBackend, "hit")
	return &decision, true
}

// Set implements DecisionCache. Write failures are logged and dropped; the
// next request simply recomputes.
func (c *RedisCache) Set(ctx context.Context, key string, decision *models.AuthDecision) {
	data, err := json.Marshal(decision)
	if err != nil {
		c.log.Error(ctx, "failed to encode decision for cache", err)
		return
	}
	if err := c.client.Set(ctx, c.cacheKey(key), data, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "decision cache write failed", logger.Error(err))
	}
}

func (c *RedisCache) cacheKey(identitySource string) string {
	sum := sha256.Sum256([]byte(identitySource))
	return fmt.Sprintf("authz:decision:%s", hex.EncodeToString(sum[:]))
}
