package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSignal/internal/domain/models"
	"MacroSignal/pkg/logger"
)

func inlineRequests(n int) []models.BatchRequest {
	reqs := make([]models.BatchRequest, n)
	for i := range reqs {
		reqs[i] = models.BatchRequest{
			Symbol:     fmt.Sprintf("SYM%03d", i),
			Metric:     "close",
			Values:     linearSeries(100, 150, 300),
			AssetClass: models.AssetETF,
		}
	}
	return reqs
}

func TestGetBatchZScoresAllSucceed(t *testing.T) {
	engine, metrics := newTestEngine(t, nil)
	coord := NewBatchCoordinator(engine, metrics, logger.Nop())

	report := coord.GetBatchZScores(context.Background(), inlineRequests(45))

	require.Len(t, report.Results, 45)
	assert.Equal(t, 45, report.Total)
	assert.Equal(t, 45, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1.0, report.SuccessRate)
	assert.InDelta(t, 0.85, report.AverageQuality, 1e-9)
	assert.False(t, report.Timestamp.IsZero())
	for _, res := range report.Results {
		require.NotNil(t, res.ZScore)
	}
	assert.Equal(t, 45, metrics.batchTotal)
	assert.Equal(t, 1.0, metrics.batchRate)
}

func TestGetBatchZScoresMixedOutcomes(t *testing.T) {
	engine, metrics := newTestEngine(t, nil)
	coord := NewBatchCoordinator(engine, metrics, logger.Nop())

	reqs := inlineRequests(10)
	// Short series fail validation; they still produce a result entry with a
	// nil Z-score, just not a success.
	reqs[3].Values = linearSeries(100, 110, 30)
	reqs[7].Values = linearSeries(100, 110, 30)

	report := coord.GetBatchZScores(context.Background(), reqs)

	require.Len(t, report.Results, 10)
	assert.Equal(t, 8, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	assert.InDelta(t, 0.8, report.SuccessRate, 1e-9)
	assert.Nil(t, report.Results["SYM003:close"].ZScore)
	assert.Equal(t, models.MethodValidationFailed, report.Results["SYM003:close"].Method)
}

func TestGetBatchZScoresFetchFailureOmitted(t *testing.T) {
	provider := &stubProvider{fetch: func(symbol, _ string) ([]float64, error) {
		if symbol == "BAD" {
			return nil, errors.New("series not found")
		}
		return linearSeries(100, 150, 300), nil
	}}
	engine, metrics := newTestEngine(t, provider)
	coord := NewBatchCoordinator(engine, metrics, logger.Nop())

	reqs := []models.BatchRequest{
		{Symbol: "SPY", Metric: "close", AssetClass: models.AssetETF},
		{Symbol: "BAD", Metric: "close", AssetClass: models.AssetETF},
		{Symbol: "QQQ", Metric: "close", AssetClass: models.AssetETF},
	}

	report := coord.GetBatchZScores(context.Background(), reqs)

	require.Len(t, report.Results, 2)
	assert.NotContains(t, report.Results, "BAD:close")
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.InDelta(t, 2.0/3.0, report.SuccessRate, 1e-9)
}

func TestGetBatchZScoresBoundedConcurrency(t *testing.T) {
	var inFlight, peak int64
	provider := &stubProvider{fetch: func(string, string) ([]float64, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return linearSeries(100, 150, 300), nil
	}}
	engine, metrics := newTestEngine(t, provider)
	coord := NewBatchCoordinator(engine, metrics, logger.Nop(), WithChunkSize(4))

	reqs := make([]models.BatchRequest, 10)
	for i := range reqs {
		reqs[i] = models.BatchRequest{
			Symbol:     fmt.Sprintf("SYM%03d", i),
			Metric:     "close",
			AssetClass: models.AssetETF,
		}
	}

	report := coord.GetBatchZScores(context.Background(), reqs)

	assert.Equal(t, 10, report.Succeeded)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(4))
}

func TestGetBatchZScoresEmptyRequests(t *testing.T) {
	engine, metrics := newTestEngine(t, nil)
	coord := NewBatchCoordinator(engine, metrics, logger.Nop())

	report := coord.GetBatchZScores(context.Background(), nil)

	assert.Empty(t, report.Results)
	assert.Zero(t, report.Total)
	assert.Zero(t, report.SuccessRate)
	assert.Zero(t, report.AverageQuality)
}

func TestGetBatchZScoresRecoversFromPanic(t *testing.T) {
	engine, metrics := newTestEngine(t, nil)
	coord := NewBatchCoordinator(engine, metrics, logger.Nop())

	reqs := inlineRequests(3)
	// An unknown asset class panics inside the worker; the batch survives.
	reqs[1].AssetClass = models.AssetClass("crypto")

	report := coord.GetBatchZScores(context.Background(), reqs)

	require.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, metrics.errors["batch_panic"])
}

func TestWithChunkSizeIgnoresInvalid(t *testing.T) {
	engine, metrics := newTestEngine(t, nil)

	coord := NewBatchCoordinator(engine, metrics, logger.Nop(), WithChunkSize(0))
	assert.Equal(t, DefaultChunkSize, coord.chunkSize)

	coord = NewBatchCoordinator(engine, metrics, logger.Nop(), WithChunkSize(7))
	assert.Equal(t, 7, coord.chunkSize)
}
