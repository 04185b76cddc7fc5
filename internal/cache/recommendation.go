package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/utils"
)

// RecommendationCache keeps scored recommendation lists per user so repeated
// requests don't rescan the catalog. Every method is a no-op when redis is
// not configured; callers just recompute.
type RecommendationCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRecommendationCache(log *logger.Logger) *RecommendationCache {
	cacheLog := log.With("service", "RecommendationCache")

	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		cacheLog.Info("REDIS_ADDR not set, recommendation cache disabled")
		return &RecommendationCache{log: cacheLog}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", nil),
		DB:       utils.GetEnvAsInt("REDIS_DB", 0, nil),
	})

	ttlSec := utils.GetEnvAsInt("RECOMMENDATION_CACHE_TTL_SECONDS", 600, log)
	return &RecommendationCache{
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
		log: cacheLog,
	}
}

func (c *RecommendationCache) key(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("recommendations:%s:%d", userID, limit)
}

func (c *RecommendationCache) Get(ctx context.Context, userID uuid.UUID, limit int) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(userID, limit)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Recommendation cache read failed", "error", err)
		return nil, false
	}
	return raw, true
}

func (c *RecommendationCache) Set(ctx context.Context, userID uuid.UUID, limit int, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(userID, limit), payload, c.ttl).Err(); err != nil {
		c.log.Warn("Recommendation cache write failed", "error", err)
	}
}

// Invalidate drops every cached list for the user; called after a lesson
// completion changes the candidate set.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	pattern := fmt.Sprintf("recommendations:%s:*", userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("Recommendation cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Recommendation cache scan failed", "error", err)
	}
}
