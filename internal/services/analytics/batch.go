package analytics

import (
	"context"
	"sync"
	"time"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	domsvc "MacroSignal/internal/domain/service"
	applogger "MacroSignal/pkg/logger"
)

// DefaultChunkSize bounds how many computations run concurrently. Chunks are
// awaited fully before the next one starts so the backing store is never hit
// by the whole batch at once.
const DefaultChunkSize = 20

// BatchCoordinator computes many Z-scores with bounded parallelism and
// isolates per-item failures.
type BatchCoordinator struct {
	engine    *Engine
	metrics   domrepo.Metrics
	log       *applogger.Logger
	chunkSize int
	now       func() time.Time
}

// BatchOption configures the coordinator.
type BatchOption func(*BatchCoordinator)

// WithChunkSize overrides the chunk size.
func WithChunkSize(n int) BatchOption {
	return func(b *BatchCoordinator) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// NewBatchCoordinator creates a batch coordinator over the engine.
func NewBatchCoordinator(engine *Engine, metrics domrepo.Metrics, log *applogger.Logger, opts ...BatchOption) *BatchCoordinator {
	b := &BatchCoordinator{
		engine:    engine,
		metrics:   metrics,
		log:       log,
		chunkSize: DefaultChunkSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetBatchZScores partitions requests into fixed-size chunks, computes each
// chunk concurrently and awaits it before starting the next. One request's
// failure is logged and omitted from the map; it never aborts the batch.
// Results computed here are admitted under the statistical TTL tier.
func (b *BatchCoordinator) GetBatchZScores(ctx context.Context, requests []models.BatchRequest) *models.BatchReport {
	start := b.now()
	results := make(map[string]models.ZScoreResult, len(requests))
	var mu sync.Mutex

	for begin := 0; begin < len(requests); begin += b.chunkSize {
		end := begin + b.chunkSize
		if end > len(requests) {
			end = len(requests)
		}
		chunk := requests[begin:end]

		var wg sync.WaitGroup
		for _, req := range chunk {
			wg.Add(1)
			go func(req models.BatchRequest) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						b.metrics.RecordError("batch_panic")
						b.log.Error("batch item panicked",
							applogger.String("key", req.Key()),
							applogger.Any("panic", r),
						)
					}
				}()

				res, err := b.computeOne(ctx, req)
				if err != nil {
					b.log.Warn("batch item failed",
						applogger.String("key", req.Key()),
						applogger.Error(err),
					)
					return
				}

				mu.Lock()
				results[req.Key()] = res
				mu.Unlock()
			}(req)
		}
		wg.Wait()
	}

	report := b.buildReport(requests, results, b.now().Sub(start))
	b.metrics.RecordBatch(report.Total, report.Succeeded, report.SuccessRate, report.AverageQuality)
	b.log.Info("batch z-scores computed",
		applogger.Int("total", report.Total),
		applogger.Int("succeeded", report.Succeeded),
		applogger.Float64("success_rate", report.SuccessRate),
		applogger.Duration("elapsed", report.Elapsed),
	)
	return report
}

func (b *BatchCoordinator) computeOne(ctx context.Context, req models.BatchRequest) (models.ZScoreResult, error) {
	if req.Values == nil {
		return b.engine.GetZScoreFor(ctx, req.Symbol, req.Metric, req.AssetClass, models.FreqStatistical)
	}
	return b.engine.GetZScore(ctx, req.Symbol, req.Metric, req.Values, req.AssetClass, models.FreqStatistical), nil
}

func (b *BatchCoordinator) buildReport(requests []models.BatchRequest, results map[string]models.ZScoreResult, elapsed time.Duration) *models.BatchReport {
	report := &models.BatchReport{
		Results:   results,
		Total:     len(requests),
		Elapsed:   elapsed,
		Timestamp: b.now(),
	}

	var qualSum float64
	for _, res := range results {
		qualSum += res.Quality
		if res.ZScore != nil {
			report.Succeeded++
		}
	}
	report.Failed = report.Total - report.Succeeded
	if report.Total > 0 {
		report.SuccessRate = float64(report.Succeeded) / float64(report.Total)
	}
	if len(results) > 0 {
		report.AverageQuality = qualSum / float64(len(results))
	}
	return report
}

var _ domsvc.BatchSource = (*BatchCoordinator)(nil)
