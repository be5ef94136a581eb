package analytics

import (
	"context"
	"fmt"
	"math"

	"MacroSignal/internal/domain/models"
	domsvc "MacroSignal/internal/domain/service"
	applogger "MacroSignal/pkg/logger"
)

// Base signal thresholds in Z-score units, before regime adjustment.
const (
	buyThreshold        = 1.0
	sellThreshold       = -1.0
	strongBuyThreshold  = 1.96
	strongSellThreshold = -1.96
)

// SignalGenerator folds the active volatility regime into Z-scores to
// produce discrete trading signals with a human-readable rationale.
type SignalGenerator struct {
	engine *Engine
	log    *applogger.Logger
}

// NewSignalGenerator creates a signal generator on top of the engine.
func NewSignalGenerator(engine *Engine, log *applogger.Logger) *SignalGenerator {
	return &SignalGenerator{engine: engine, log: log}
}

// Generate combines a Z-score with the volatility regime for the given VIX
// level. Thresholds are divided by the regime multiplier, so they loosen in
// calm regimes and tighten in volatile ones; equality counts as crossing.
func (g *SignalGenerator) Generate(zScore *float64, vixLevel float64) models.TradingSignal {
	regime := ClassifyRegime(vixLevel)

	if zScore == nil || math.IsNaN(*zScore) || math.IsInf(*zScore, 0) {
		return models.TradingSignal{
			Signal:    models.SignalHold,
			Strength:  0,
			Regime:    regime,
			Rationale: "invalid Z-Score",
		}
	}

	z := *zScore
	adjusted := z * regime.Multiplier

	var signal models.SignalAction
	switch {
	case z >= strongBuyThreshold/regime.Multiplier:
		signal = models.SignalStrongBuy
	case z >= buyThreshold/regime.Multiplier:
		signal = models.SignalBuy
	case z <= strongSellThreshold/regime.Multiplier:
		signal = models.SignalStrongSell
	case z <= sellThreshold/regime.Multiplier:
		signal = models.SignalSell
	default:
		signal = models.SignalHold
	}

	return models.TradingSignal{
		Signal:   signal,
		Strength: math.Abs(adjusted),
		Regime:   regime,
		Rationale: fmt.Sprintf("z-score %.2f in %s volatility regime (vix %.1f, multiplier %.1f)",
			z, regime.Regime, vixLevel, regime.Multiplier),
	}
}

// VolatilityAdjustedSignal computes the Z-score for a series and returns the
// full regime-adjusted view of it.
func (g *SignalGenerator) VolatilityAdjustedSignal(ctx context.Context, symbol, metric string, values []float64, vixLevel float64, assetClass models.AssetClass) models.AdjustedSignal {
	res := g.engine.GetZScore(ctx, symbol, metric, values, assetClass, models.FreqDaily)
	sig := g.Generate(res.ZScore, vixLevel)

	out := models.AdjustedSignal{
		ZScore:    res.ZScore,
		Signal:    sig.Signal,
		Regime:    sig.Regime,
		Rationale: sig.Rationale,
	}
	if res.ZScore != nil {
		adjusted := *res.ZScore * sig.Regime.Multiplier
		out.AdjustedZScore = &adjusted
	}

	g.log.Debug("volatility-adjusted signal",
		applogger.String("symbol", symbol),
		applogger.String("metric", metric),
		applogger.String("signal", string(sig.Signal)),
	)
	return out
}

var _ domsvc.SignalSource = (*SignalGenerator)(nil)
