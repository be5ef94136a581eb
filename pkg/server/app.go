package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MacroSignal/internal/usecase"
	pkgcache "MacroSignal/pkg/cache"
	pkgch "MacroSignal/pkg/clickhouse"
	"MacroSignal/pkg/config"
	applogger "MacroSignal/pkg/logger"
)

// App encapsulates the application lifecycle: the periodic bulk
// recalculation loop plus the metrics listener.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	recalc     *usecase.BulkRecalc
	cacheStore pkgcache.Store
	chClient   *pkgch.Client
	metricsSrv *http.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	recalc *usecase.BulkRecalc,
	cacheStore pkgcache.Store,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		recalc:     recalc,
		cacheStore: cacheStore,
		chClient:   chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())
		a.metricsSrv = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := a.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.log.Error("metrics listener error", applogger.Error(err))
			}
		}()
		a.log.Info("metrics listener started", applogger.String("addr", a.cfg.Metrics.Addr))
	}

	go a.recalcLoop(ctx)
	a.log.Info("recalculation loop started",
		applogger.Duration("interval", a.cfg.Engine.RecalcInterval),
		applogger.Int("universe", len(a.cfg.Engine.Universe)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// recalcLoop runs a pass immediately and then on every tick.
func (a *App) recalcLoop(ctx context.Context) {
	if _, err := a.recalc.Run(ctx); err != nil {
		a.log.Error("recalculation failed", applogger.Error(err))
	}

	ticker := time.NewTicker(a.cfg.Engine.RecalcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.recalc.Run(ctx); err != nil {
				a.log.Error("recalculation failed", applogger.Error(err))
			}
		}
	}
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.log.Error("metrics listener shutdown error", applogger.Error(err))
		}
	}
	if a.cacheStore != nil {
		if err := a.cacheStore.Close(); err != nil {
			a.log.Error("cache close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Error("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
