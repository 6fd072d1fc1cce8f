// internal/store/cache_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
)

func newResultCache(t *testing.T) (*ResultCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResultCache(client, 5*time.Minute, logger.NewTestLogger(t)), mr
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Query: "tea exports from India",
		ParsedQuery: models.ParsedQuery{
			Intent:      models.IntentExportAnalysis,
			ProductName: "tea",
			Country:     "India",
		},
		Strategy:        models.StrategyByProduct,
		Recommendations: []string{"Top 3 exporting markets by value: Japan ($180,000.00)."},
		DownloadLink:    "/download/trade_data_tea_export_analysis.xlsx",
	}
}

func TestResultCache_SetAndGet(t *testing.T) {
	cache, _ := newResultCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "tea exports from India", sampleResult()))

	got, found, err := cache.Get(ctx, "tea exports from India")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleResult(), got)
}

func TestResultCache_Miss(t *testing.T) {
	cache, _ := newResultCache(t)

	got, found, err := cache.Get(context.Background(), "never seen")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestResultCache_KeyNormalization(t *testing.T) {
	cache, _ := newResultCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "Tea   Exports from India", sampleResult()))

	// Case and whitespace differences hit the same entry.
	_, found, err := cache.Get(ctx, "tea exports FROM india")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestResultCache_CorruptEntryIsDropped(t *testing.T) {
	cache, mr := newResultCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("analysis:tea exports", "not-json"))

	got, found, err := cache.Get(ctx, "tea exports")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("analysis:tea exports"))
}

func TestResultCache_TTLApplied(t *testing.T) {
	cache, mr := newResultCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "tea exports", sampleResult()))

	mr.FastForward(10 * time.Minute)

	_, found, err := cache.Get(ctx, "tea exports")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultCache_SetUsesConfiguredTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewResultCache(client, 5*time.Minute, logger.NewTestLogger(t))

	result := sampleResult()
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	mock.ExpectSet("analysis:tea exports from india", raw, 5*time.Minute).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), "Tea Exports from India", result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultCache_UnreachableBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewResultCache(client, time.Minute, logger.NewTestLogger(t))
	mr.Close()

	_, found, err := cache.Get(context.Background(), "tea exports")
	assert.Error(t, err)
	assert.False(t, found)

	assert.Error(t, cache.Set(context.Background(), "tea exports", sampleResult()))
}
