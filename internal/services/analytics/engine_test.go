package analytics

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	svccache "MacroSignal/internal/service/cache"
	pkgcache "MacroSignal/pkg/cache"
	"MacroSignal/pkg/logger"
)

type stubMetrics struct {
	mu           sync.Mutex
	computations map[string]int
	cacheHits    int
	cacheMisses  int
	errors       map[string]int
	batchTotal   int
	batchRate    float64
	batchQuality float64
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{
		computations: make(map[string]int),
		errors:       make(map[string]int),
	}
}

func (m *stubMetrics) RecordComputation(method string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.computations[method]++
}

func (m *stubMetrics) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *stubMetrics) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *stubMetrics) RecordBatch(total, _ int, successRate, avgQuality float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchTotal = total
	m.batchRate = successRate
	m.batchQuality = avgQuality
}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *stubMetrics) snapshot() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits, m.cacheMisses
}

var _ domrepo.Metrics = (*stubMetrics)(nil)

type stubProvider struct {
	calls int64
	fetch func(symbol, metric string) ([]float64, error)
}

func (p *stubProvider) FetchSeries(_ context.Context, symbol, metric string, _ models.AssetClass) ([]float64, error) {
	atomic.AddInt64(&p.calls, 1)
	return p.fetch(symbol, metric)
}

func (p *stubProvider) callCount() int64 { return atomic.LoadInt64(&p.calls) }

func newTestEngine(t *testing.T, provider domrepo.SeriesProvider) (*Engine, *stubMetrics) {
	t.Helper()
	store := pkgcache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	m := newStubMetrics()
	return NewEngine(svccache.NewResultCache(store), provider, m, logger.Nop()), m
}

func TestGetZScoreLinearSeries(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	values := linearSeries(100, 150, 252)

	res := engine.GetZScore(context.Background(), "SPY", "close", values, models.AssetETF, models.FreqDaily)

	require.NotNil(t, res.ZScore)
	assert.Equal(t, models.MethodZScore, res.Method)
	// A rising linear series ends well above its window mean.
	assert.Greater(t, *res.ZScore, 1.645)
	assert.Less(t, *res.ZScore, 1.96)
	assert.Equal(t, 63, res.WindowSize)
	assert.Equal(t, 252, res.DataPoints)
	require.NotNil(t, res.ConfidenceLevel)
	assert.Equal(t, 0.90, *res.ConfidenceLevel)
	require.NotNil(t, res.StatisticalPower)
	assert.Equal(t, 0.85, *res.StatisticalPower)
	assert.Equal(t, 0.85, res.Quality)
	assert.False(t, res.Timestamp.IsZero())
}

func TestGetZScoreServedFromCache(t *testing.T) {
	engine, metrics := newTestEngine(t, nil)
	values := linearSeries(100, 150, 252)

	first := engine.GetZScore(context.Background(), "SPY", "close", values, models.AssetETF, models.FreqDaily)
	second := engine.GetZScore(context.Background(), "SPY", "close", values, models.AssetETF, models.FreqDaily)

	require.NotNil(t, first.ZScore)
	require.NotNil(t, second.ZScore)
	assert.Equal(t, *first.ZScore, *second.ZScore)

	hits, misses := metrics.snapshot()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestGetZScoreForSkipsFetchOnCacheHit(t *testing.T) {
	provider := &stubProvider{fetch: func(string, string) ([]float64, error) {
		return linearSeries(100, 150, 300), nil
	}}
	engine, _ := newTestEngine(t, provider)

	first, err := engine.GetZScoreFor(context.Background(), "SPY", "close", models.AssetETF, models.FreqDaily)
	require.NoError(t, err)
	require.NotNil(t, first.ZScore)
	assert.Greater(t, first.Quality, 0.8, "300 daily points must earn a cache-servable quality")

	_, err = engine.GetZScoreFor(context.Background(), "SPY", "close", models.AssetETF, models.FreqDaily)
	require.NoError(t, err)
	assert.Equal(t, int64(1), provider.callCount())
}

func TestGetZScoreForLowPowerRecomputes(t *testing.T) {
	// 120 economic observations earn power 0.70: enough to cache, not
	// enough to serve from cache, so every call goes back to the store.
	provider := &stubProvider{fetch: func(string, string) ([]float64, error) {
		return linearSeries(1, 10, 120), nil
	}}
	engine, _ := newTestEngine(t, provider)

	res, err := engine.GetZScoreFor(context.Background(), "CPI", "yoy", models.AssetEconomic, models.FreqEconomic)
	require.NoError(t, err)
	require.NotNil(t, res.ZScore)
	assert.Equal(t, 0.70, res.Quality)

	_, err = engine.GetZScoreFor(context.Background(), "CPI", "yoy", models.AssetEconomic, models.FreqEconomic)
	require.NoError(t, err)
	assert.Equal(t, int64(2), provider.callCount())
}

func TestGetZScoreValidationFailed(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	res := engine.GetZScore(context.Background(), "NEW", "close", linearSeries(100, 110, 50), models.AssetETF, models.FreqDaily)

	assert.Nil(t, res.ZScore)
	assert.Equal(t, models.MethodValidationFailed, res.Method)
	assert.Zero(t, res.Quality)
}

func TestGetZScoreInsufficientAfterFilter(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	// 260 raw observations clear the length check, but 20 NaN entries leave
	// only 240 finite points against a 252 minimum.
	values := linearSeries(100, 150, 260)
	for i := 0; i < 20; i++ {
		values[i*13] = math.NaN()
	}

	res := engine.GetZScore(context.Background(), "SPY", "close", values, models.AssetETF, models.FreqDaily)

	assert.Nil(t, res.ZScore)
	assert.Equal(t, models.MethodInsufficientData, res.Method)
	assert.Equal(t, 240, res.DataPoints)
}

func TestGetZScoreZeroVarianceWindow(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	// Early symmetric wiggles keep overall variance positive; the trailing
	// window itself is flat.
	values := constantSeries(100, 300)
	values[0], values[1] = 95, 105
	values[2], values[3] = 95, 105
	values[4], values[5] = 95, 105

	res := engine.GetZScore(context.Background(), "FLAT", "close", values, models.AssetETF, models.FreqDaily)

	assert.Nil(t, res.ZScore)
	assert.Equal(t, models.MethodZeroVariance, res.Method)
	assert.Equal(t, 63, res.WindowSize)
}

func TestGetZScoreEquityGradeHistory(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	res := engine.GetZScore(context.Background(), "AAPL", "close", linearSeries(50, 250, 2500), models.AssetETF, models.FreqDaily)

	require.NotNil(t, res.ZScore)
	assert.Equal(t, 252, res.WindowSize, "equity-grade history must use the equity window")
	assert.Equal(t, 0.99, res.Quality)
}

func TestGetZScorePanicsOnUnknownFrequency(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	require.Panics(t, func() {
		engine.GetZScore(context.Background(), "SPY", "close", linearSeries(100, 150, 252), models.AssetETF, models.DataFrequency("weekly"))
	})
}

func TestGetZScoreForWithoutProvider(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	_, err := engine.GetZScoreFor(context.Background(), "SPY", "close", models.AssetETF, models.FreqDaily)
	require.Error(t, err)
}

func TestGetZScoreForFetchError(t *testing.T) {
	wantErr := errors.New("connection refused")
	provider := &stubProvider{fetch: func(string, string) ([]float64, error) {
		return nil, wantErr
	}}
	engine, metrics := newTestEngine(t, provider)

	_, err := engine.GetZScoreFor(context.Background(), "SPY", "close", models.AssetETF, models.FreqDaily)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, metrics.errors["fetch"])
}

func TestClearCacheForcesRecompute(t *testing.T) {
	provider := &stubProvider{fetch: func(string, string) ([]float64, error) {
		return linearSeries(100, 150, 300), nil
	}}
	engine, _ := newTestEngine(t, provider)
	ctx := context.Background()

	_, err := engine.GetZScoreFor(ctx, "SPY", "close", models.AssetETF, models.FreqDaily)
	require.NoError(t, err)

	require.NoError(t, engine.ClearCache(ctx, ""))

	_, err = engine.GetZScoreFor(ctx, "SPY", "close", models.AssetETF, models.FreqDaily)
	require.NoError(t, err)
	assert.Equal(t, int64(2), provider.callCount())
}

func TestCacheStatsReflectsEntries(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	engine.GetZScore(ctx, "SPY", "close", linearSeries(100, 150, 252), models.AssetETF, models.FreqDaily)
	engine.GetZScore(ctx, "QQQ", "close", linearSeries(200, 300, 300), models.AssetETF, models.FreqDaily)

	stats, err := engine.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Greater(t, stats.AverageQuality, 0.8)
}
