//go:build wireinject
// +build wireinject

package di

import (
	"MacroSignal/pkg/config"
	"MacroSignal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Cache
		ProvideCacheStore,
		ProvideResultCache,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideSeriesStore,
		ProvideSeriesProvider,
		ProvideVixProvider,
		ProvideSignalPublisher,

		// Core services
		ProvideEngine,
		ProvideBatchCoordinator,

		// Use cases
		ProvideUniverse,
		ProvideBulkRecalc,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
