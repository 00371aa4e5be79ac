package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deca109/TaskFlow.ai/internal/domain"
)

const recommendationKeyPrefix = "recommend:"

// RecommendationCache stores serialized recommendations in Redis with a TTL.
// Rankings depend on the whole employee population, so invalidation drops
// every cached entry rather than tracking which tasks a workload change touches.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache builds a cache over the shared Redis client.
func NewRecommendationCache(r *Redis, ttl time.Duration) *RecommendationCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &RecommendationCache{client: r.Client, ttl: ttl}
}

// Get returns the cached recommendation for a task, if present.
func (c *RecommendationCache) Get(ctx context.Context, taskID string) (*domain.Recommendation, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, recommendationKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rec domain.Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Set stores a recommendation under the task key.
func (c *RecommendationCache) Set(ctx context.Context, taskID string, rec *domain.Recommendation) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, recommendationKeyPrefix+taskID, raw, c.ttl).Err()
}

// InvalidateAll removes every cached recommendation.
func (c *RecommendationCache) InvalidateAll(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, recommendationKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
