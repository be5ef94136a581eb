package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	domsvc "MacroSignal/internal/domain/service"
	svccache "MacroSignal/internal/service/cache"
	applogger "MacroSignal/pkg/logger"
)

const (
	// Cached entries are only served while fresh and high-confidence.
	cacheServeQuality = 0.8
	// Only results with enough statistical power are admitted to the cache.
	cacheAdmitQuality = 0.5

	// Non-economic series with ten years of daily history earn the stricter
	// equity profile regardless of their nominal asset class.
	equityGradeObservations = 2500
)

// ttls maps data frequency to cache lifetime. The statistical tier is only
// reached through the batch path.
var ttls = map[models.DataFrequency]time.Duration{
	models.FreqRealtime:    60 * time.Second,
	models.FreqIntraday:    5 * time.Minute,
	models.FreqDaily:       2 * time.Hour,
	models.FreqEconomic:    6 * time.Hour,
	models.FreqStatistical: 24 * time.Hour,
}

// Engine computes standardized Z-scores with confidence metadata and serves
// them through a quality-gated cache. Safe for concurrent use.
type Engine struct {
	validator *Validator
	cache     *svccache.ResultCache
	series    domrepo.SeriesProvider
	metrics   domrepo.Metrics
	log       *applogger.Logger
	now       func() time.Time
}

// NewEngine creates a Z-score engine. The series provider may be nil when
// callers always supply values inline.
func NewEngine(cache *svccache.ResultCache, series domrepo.SeriesProvider, metrics domrepo.Metrics, log *applogger.Logger) *Engine {
	return &Engine{
		validator: NewValidator(),
		cache:     cache,
		series:    series,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// GetZScore computes or serves a cached Z-score for the supplied series.
// Data problems are encoded in the result's Method with a nil ZScore; only
// unknown enum values panic.
func (e *Engine) GetZScore(ctx context.Context, symbol, metric string, values []float64, assetClass models.AssetClass, freq models.DataFrequency) models.ZScoreResult {
	ttl := ttlFor(freq)
	key := svccache.Key(symbol, metric, assetClass)

	if res, ok := e.cache.Get(ctx, key); ok && res.Quality > cacheServeQuality {
		e.metrics.RecordCacheHit()
		return res
	}
	e.metrics.RecordCacheMiss()

	start := e.now()
	res := e.compute(values, assetClass)
	e.metrics.RecordComputation(string(res.Method), time.Since(start).Seconds())

	if res.Method == models.MethodZScore && res.Quality > cacheAdmitQuality {
		if err := e.cache.Set(ctx, key, res, ttl); err != nil {
			e.log.Warn("z-score cache write failed",
				applogger.String("key", key),
				applogger.Error(err),
			)
		}
	} else if res.Method != models.MethodZScore {
		e.log.Debug("z-score not computed",
			applogger.String("symbol", symbol),
			applogger.String("metric", metric),
			applogger.String("method", string(res.Method)),
		)
	}

	return res
}

// GetZScoreFor fetches the series from the backing store before computing.
// The cache is consulted first so a fresh high-confidence hit skips the
// fetch entirely; the fetch is the engine's only suspending operation.
func (e *Engine) GetZScoreFor(ctx context.Context, symbol, metric string, assetClass models.AssetClass, freq models.DataFrequency) (models.ZScoreResult, error) {
	ttlFor(freq) // validate up front, before any I/O

	key := svccache.Key(symbol, metric, assetClass)
	if res, ok := e.cache.Get(ctx, key); ok && res.Quality > cacheServeQuality {
		e.metrics.RecordCacheHit()
		return res, nil
	}

	if e.series == nil {
		return models.ZScoreResult{}, fmt.Errorf("no series provider configured for %s", key)
	}

	values, err := e.series.FetchSeries(ctx, symbol, metric, assetClass)
	if err != nil {
		e.metrics.RecordError("fetch")
		return models.ZScoreResult{}, fmt.Errorf("fetch series %s:%s: %w", symbol, metric, err)
	}

	return e.GetZScore(ctx, symbol, metric, values, assetClass, freq), nil
}

// ClearCache invalidates cached results matching the glob pattern; an empty
// pattern invalidates everything.
func (e *Engine) ClearCache(ctx context.Context, pattern string) error {
	return e.cache.Clear(ctx, pattern)
}

// CacheStats reports the live cache contents.
func (e *Engine) CacheStats(ctx context.Context) (models.CacheStats, error) {
	return e.cache.Stats(ctx)
}

func (e *Engine) compute(values []float64, assetClass models.AssetClass) models.ZScoreResult {
	profile := resolveProfile(assetClass, len(values))

	vr := e.validator.Validate(values, profile)
	if !vr.IsValid {
		return models.ZScoreResult{
			Quality:   vr.Quality,
			Method:    models.MethodValidationFailed,
			Timestamp: e.now(),
		}
	}

	finite := FilterFinite(values)
	if len(finite) < profile.MinimumPoints {
		return models.ZScoreResult{
			Method:     models.MethodInsufficientData,
			DataPoints: len(finite),
			Timestamp:  e.now(),
		}
	}

	window := profile.PrimaryWindow
	if len(finite) < window {
		window = len(finite)
	}
	recent := finite[len(finite)-window:]

	mean, variance := sampleMoments(recent)
	stdDev := math.Sqrt(variance)
	if stdDev == 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return models.ZScoreResult{
			Method:     models.MethodZeroVariance,
			WindowSize: window,
			DataPoints: len(finite),
			Timestamp:  e.now(),
		}
	}

	z := (recent[len(recent)-1] - mean) / stdDev
	power := statisticalPower(len(finite))
	confidence := confidenceLevel(math.Abs(z))

	return models.ZScoreResult{
		ZScore:           &z,
		Quality:          power,
		Method:           models.MethodZScore,
		WindowSize:       window,
		DataPoints:       len(finite),
		ConfidenceLevel:  &confidence,
		StatisticalPower: &power,
		Timestamp:        e.now(),
	}
}

// resolveProfile picks the validation profile. Economic data always uses the
// economic profile; other series earn the equity profile once they carry
// equity-grade history, otherwise they are held to the ETF profile.
func resolveProfile(assetClass models.AssetClass, observations int) models.AssetClassProfile {
	ProfileFor(assetClass) // unknown asset class fails fast

	if assetClass == models.AssetEconomic {
		return ProfileFor(models.AssetEconomic)
	}
	if observations >= equityGradeObservations {
		return ProfileFor(models.AssetEquity)
	}
	return ProfileFor(models.AssetETF)
}

// statisticalPower is a monotonic step function of the finite sample size.
func statisticalPower(sampleSize int) float64 {
	switch {
	case sampleSize >= 2000:
		return 0.99
	case sampleSize >= 1000:
		return 0.95
	case sampleSize >= 500:
		return 0.90
	case sampleSize >= 250:
		return 0.85
	case sampleSize >= 100:
		return 0.70
	default:
		return math.Min(0.60, float64(sampleSize)/100*0.6)
	}
}

// confidenceLevel maps |z| to the confidence of the deviation being real,
// using standard normal critical values.
func confidenceLevel(absZ float64) float64 {
	switch {
	case absZ >= 2.58:
		return 0.99
	case absZ >= 1.96:
		return 0.95
	case absZ >= 1.645:
		return 0.90
	case absZ >= 1.28:
		return 0.80
	case absZ >= 1.0:
		return 0.68
	default:
		return 0.50
	}
}

func ttlFor(freq models.DataFrequency) time.Duration {
	ttl, ok := ttls[freq]
	if !ok {
		panic(fmt.Sprintf("analytics: unknown data frequency %q", freq))
	}
	return ttl
}

var _ domsvc.ZScoreSource = (*Engine)(nil)
