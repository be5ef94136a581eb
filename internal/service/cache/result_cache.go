package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MacroSignal/internal/domain/models"
	pkgcache "MacroSignal/pkg/cache"
)

// ResultCache is the typed layer over a byte store for Z-score results.
// Keys are `symbol:metric:assetClass`; one entry per key, replaced whole.
type ResultCache struct {
	store pkgcache.Store
	now   func() time.Time
}

// NewResultCache wraps a cache store.
func NewResultCache(store pkgcache.Store) *ResultCache {
	return &ResultCache{store: store, now: time.Now}
}

// Key builds the composite cache key for one series.
func Key(symbol, metric string, assetClass models.AssetClass) string {
	return pkgcache.GenerateKeyWithParams(symbol, metric, assetClass)
}

// Get returns the cached result for key, or ok=false on miss, expiry, or a
// backend error. Backend errors degrade to a miss: a flaky shared cache must
// not break computation.
func (c *ResultCache) Get(ctx context.Context, key string) (models.ZScoreResult, bool) {
	data, ok, err := c.store.GetBytes(ctx, key)
	if err != nil || !ok {
		return models.ZScoreResult{}, false
	}

	var res models.ZScoreResult
	if err := json.Unmarshal(data, &res); err != nil {
		return models.ZScoreResult{}, false
	}
	return res, true
}

// Set stores a result under key with the given TTL.
func (c *ResultCache) Set(ctx context.Context, key string, res models.ZScoreResult, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.store.SetBytes(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Clear invalidates entries matching the glob pattern; empty clears all.
func (c *ResultCache) Clear(ctx context.Context, pattern string) error {
	return c.store.DeleteByPattern(ctx, pattern)
}

// Stats scans live entries and aggregates quality and age.
func (c *ResultCache) Stats(ctx context.Context) (models.CacheStats, error) {
	keys, err := c.store.Keys(ctx, "")
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache keys: %w", err)
	}

	var (
		stats   models.CacheStats
		qualSum float64
		oldest  time.Time
	)
	for _, key := range keys {
		res, ok := c.Get(ctx, key)
		if !ok {
			continue
		}
		stats.TotalEntries++
		qualSum += res.Quality
		if oldest.IsZero() || res.Timestamp.Before(oldest) {
			oldest = res.Timestamp
		}
	}

	if stats.TotalEntries > 0 {
		stats.AverageQuality = qualSum / float64(stats.TotalEntries)
		stats.OldestEntryAgeMs = c.now().Sub(oldest).Milliseconds()
	}
	return stats, nil
}
