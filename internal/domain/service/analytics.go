package service

import (
	"context"

	"MacroSignal/internal/domain/models"
)

// ZScoreSource computes standardized signals for observation series.
type ZScoreSource interface {
	// GetZScore computes or serves a cached Z-score for the supplied series.
	GetZScore(ctx context.Context, symbol, metric string, values []float64, assetClass models.AssetClass, freq models.DataFrequency) models.ZScoreResult

	// GetZScoreFor fetches the series from the backing store before
	// computing. The cache is consulted first so a fresh hit skips the fetch.
	GetZScoreFor(ctx context.Context, symbol, metric string, assetClass models.AssetClass, freq models.DataFrequency) (models.ZScoreResult, error)

	// ClearCache invalidates cached results matching the glob pattern;
	// an empty pattern invalidates everything.
	ClearCache(ctx context.Context, pattern string) error

	// CacheStats reports the live cache contents.
	CacheStats(ctx context.Context) (models.CacheStats, error)
}

// SignalSource folds the volatility regime into Z-scores to produce
// discrete trading signals.
type SignalSource interface {
	Generate(zScore *float64, vixLevel float64) models.TradingSignal
	VolatilityAdjustedSignal(ctx context.Context, symbol, metric string, values []float64, vixLevel float64, assetClass models.AssetClass) models.AdjustedSignal
}

// BatchSource computes many Z-scores with bounded parallelism.
type BatchSource interface {
	GetBatchZScores(ctx context.Context, requests []models.BatchRequest) *models.BatchReport
}
