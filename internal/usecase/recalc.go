package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	"MacroSignal/internal/services/analytics"
	applogger "MacroSignal/pkg/logger"
)

// BulkRecalc recomputes Z-scores for the configured universe of series and
// hands the results to downstream consumers. It is the bulk-recalculation
// context the statistical cache tier exists for.
type BulkRecalc struct {
	coordinator *analytics.BatchCoordinator
	publisher   domrepo.SignalPublisher // nil disables publishing
	vix         domrepo.VixProvider     // nil skips regime reporting
	log         *applogger.Logger
	universe    []models.BatchRequest
	timeout     time.Duration
}

// NewBulkRecalc creates the bulk recalculation use case. Requests carry no
// inline values; the coordinator fetches each series from the store.
func NewBulkRecalc(coordinator *analytics.BatchCoordinator, publisher domrepo.SignalPublisher, vix domrepo.VixProvider, universe []models.BatchRequest, log *applogger.Logger) *BulkRecalc {
	return &BulkRecalc{
		coordinator: coordinator,
		publisher:   publisher,
		vix:         vix,
		log:         log,
		universe:    universe,
		timeout:     5 * time.Minute,
	}
}

// Run executes one recalculation pass over the whole universe.
func (r *BulkRecalc) Run(ctx context.Context) (*models.BatchReport, error) {
	if len(r.universe) == 0 {
		return nil, fmt.Errorf("recalc universe is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	report := r.coordinator.GetBatchZScores(ctx, r.universe)
	r.log.Info("bulk recalculation finished",
		applogger.Int("total", report.Total),
		applogger.Int("succeeded", report.Succeeded),
		applogger.Float64("avg_quality", report.AverageQuality),
	)

	if r.vix != nil {
		if vixLevel, err := r.vix.CurrentVix(ctx); err != nil {
			r.log.Warn("volatility index unavailable", applogger.Error(err))
		} else {
			regime := analytics.ClassifyRegime(vixLevel)
			r.log.Info("active volatility regime",
				applogger.String("regime", string(regime.Regime)),
				applogger.Float64("vix", vixLevel),
				applogger.Float64("multiplier", regime.Multiplier),
			)
		}
	}

	if r.publisher != nil && len(report.Results) > 0 {
		if err := r.publisher.PublishBatch(ctx, report); err != nil {
			// Publishing is best effort; the results are already cached.
			r.log.Error("batch publish failed", applogger.Error(err))
		}
	}

	return report, nil
}
