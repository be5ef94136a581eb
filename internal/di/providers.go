package di

import (
	"context"
	"fmt"
	"time"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	internalrepo "MacroSignal/internal/repository"
	svccache "MacroSignal/internal/service/cache"
	"MacroSignal/internal/services/analytics"
	"MacroSignal/internal/usecase"
	pkgcache "MacroSignal/pkg/cache"
	pkgch "MacroSignal/pkg/clickhouse"
	"MacroSignal/pkg/config"
	pkgkafka "MacroSignal/pkg/kafka"
	applogger "MacroSignal/pkg/logger"
	"MacroSignal/pkg/metrics"
	"MacroSignal/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCacheStore selects the cache backend from config.
func ProvideCacheStore(cfg *config.Config) (pkgcache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, nil
	case "memory":
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize),
			pkgcache.WithMemoryCleanup(cfg.Cache.Memory.CleanupInterval),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideResultCache wraps the store with the typed result layer.
func ProvideResultCache(store pkgcache.Store) *svccache.ResultCache {
	return svccache.NewResultCache(store)
}

// ProvideClickHouseClient creates the ClickHouse client and ensures the
// observations schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSeriesStore creates the ClickHouse-backed series store.
func ProvideSeriesStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) *internalrepo.ClickHouseSeriesStore {
	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
	return internalrepo.NewClickHouseSeriesStore(chClient.DB(), table, cfg.Engine.VixSymbol, cfg.Engine.VixMetric, l)
}

// ProvideSeriesProvider exposes the store through the domain interface.
func ProvideSeriesProvider(store *internalrepo.ClickHouseSeriesStore) domrepo.SeriesProvider {
	return store
}

// ProvideVixProvider exposes the store's volatility index lookup.
func ProvideVixProvider(store *internalrepo.ClickHouseSeriesStore) domrepo.VixProvider {
	return store
}

// ProvideSignalPublisher creates the Kafka publisher, or nil when disabled.
func ProvideSignalPublisher(cfg *config.Config) (domrepo.SignalPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideEngine creates the Z-score engine.
func ProvideEngine(cache *svccache.ResultCache, series domrepo.SeriesProvider, m domrepo.Metrics, l *applogger.Logger) *analytics.Engine {
	return analytics.NewEngine(cache, series, m, l)
}

// ProvideBatchCoordinator creates the batch pipeline.
func ProvideBatchCoordinator(engine *analytics.Engine, m domrepo.Metrics, l *applogger.Logger, cfg *config.Config) *analytics.BatchCoordinator {
	return analytics.NewBatchCoordinator(engine, m, l, analytics.WithChunkSize(cfg.Engine.ChunkSize))
}

// ProvideUniverse converts the configured series list into batch requests.
func ProvideUniverse(cfg *config.Config) []models.BatchRequest {
	universe := make([]models.BatchRequest, 0, len(cfg.Engine.Universe))
	for _, ref := range cfg.Engine.Universe {
		universe = append(universe, models.BatchRequest{
			Symbol:     ref.Symbol,
			Metric:     ref.Metric,
			AssetClass: models.AssetClass(ref.AssetClass),
		})
	}
	return universe
}

// ProvideBulkRecalc creates the recalculation use case.
func ProvideBulkRecalc(
	coordinator *analytics.BatchCoordinator,
	publisher domrepo.SignalPublisher,
	vix domrepo.VixProvider,
	universe []models.BatchRequest,
	l *applogger.Logger,
) *usecase.BulkRecalc {
	return usecase.NewBulkRecalc(coordinator, publisher, vix, universe, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	recalc *usecase.BulkRecalc,
	store pkgcache.Store,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, recalc, store, chClient)
}
