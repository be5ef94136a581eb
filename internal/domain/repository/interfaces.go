package repository

import (
	"context"

	"MacroSignal/internal/domain/models"
)

// SeriesProvider supplies raw observation series from the backing store,
// ordered oldest to newest. The series may contain non-finite entries; the
// engine filters them before use.
type SeriesProvider interface {
	FetchSeries(ctx context.Context, symbol, metric string, assetClass models.AssetClass) ([]float64, error)
}

// VixProvider supplies the current volatility index level.
type VixProvider interface {
	CurrentVix(ctx context.Context) (float64, error)
}

// SignalPublisher hands finished batch results to downstream consumers.
type SignalPublisher interface {
	PublishBatch(ctx context.Context, report *models.BatchReport) error
	Close() error
}

// Metrics is the instrumentation sink for the engine and batch pipeline.
type Metrics interface {
	RecordComputation(method string, seconds float64)
	RecordCacheHit()
	RecordCacheMiss()
	RecordBatch(total, succeeded int, successRate, avgQuality float64)
	RecordError(kind string)
}
