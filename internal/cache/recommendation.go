package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// RecommendationCache memoizes per-user recommendation results in
// Redis. Keys are typed by user ID; absence is a valid state, never an
// error. The TTL is owned by the caller.
type RecommendationCache struct {
	rdb *redis.Client
}

// NewRecommendationCache creates a new RecommendationCache.
func NewRecommendationCache(rdb *redis.Client) *RecommendationCache {
	return &RecommendationCache{rdb: rdb}
}

func key(userID uuid.UUID) string {
	return "recommended:user:" + userID.String()
}

// Get returns the cached result for the user, or (nil, nil) on a miss.
// An unreadable payload is treated as a miss rather than an error.
func (c *RecommendationCache) Get(ctx context.Context, userID uuid.UUID) (*models.CachedRecommendation, error) {
	data, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var result models.CachedRecommendation
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, nil
	}
	return &result, nil
}

// Set stores the result for the user with the given TTL.
func (c *RecommendationCache) Set(ctx context.Context, userID uuid.UUID, result *models.CachedRecommendation, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, key(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate removes the user's cached result regardless of its state.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
