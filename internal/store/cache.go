// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
)

const cacheKeyPrefix = "analysis:"

// ResultCache stores completed analysis results keyed by the normalized
// query text. A cold or unreachable cache is never fatal; callers log
// the returned error and proceed.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResultCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "result-cache"}),
	}
}

// Get returns the cached result for a query, with found=false on miss.
func (c *ResultCache) Get(ctx context.Context, query string) (*models.AnalysisResult, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(query)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, commonerrors.NewCacheUnavailableError(err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.client.Del(ctx, cacheKey(query))
		return nil, false, nil
	}
	return &result, true, nil
}

// Set stores a result under the normalized query.
func (c *ResultCache) Set(ctx context.Context, query string, result *models.AnalysisResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return commonerrors.NewCacheUnavailableError(err)
	}
	if err := c.client.Set(ctx, cacheKey(query), raw, c.ttl).Err(); err != nil {
		return commonerrors.NewCacheUnavailableError(err)
	}
	return nil
}

func cacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
