package analytics

import (
	"time"

	"MacroSignal/internal/domain/models"
)

// VIX thresholds for regime boundaries. Low-volatility regimes favor mean
// reversion so signal conviction is dampened; high and crisis regimes favor
// trend persistence so it is amplified.
const (
	vixLowMax    = 15.0
	vixNormalMax = 25.0
	vixHighMax   = 35.0
)

// ClassifyRegime maps a volatility index level to a discrete regime and its
// signal-strength multiplier. Total over all inputs.
func ClassifyRegime(vixLevel float64) models.VolatilityRegime {
	var (
		regime      models.RegimeLevel
		multiplier  float64
		description string
	)

	switch {
	case vixLevel < vixLowMax:
		regime = models.RegimeLow
		multiplier = 0.7
		description = "calm market, mean reversion favored"
	case vixLevel < vixNormalMax:
		regime = models.RegimeNormal
		multiplier = 1.0
		description = "normal volatility environment"
	case vixLevel < vixHighMax:
		regime = models.RegimeHigh
		multiplier = 1.3
		description = "elevated volatility, trend persistence favored"
	default:
		regime = models.RegimeCrisis
		multiplier = 1.8
		description = "crisis volatility, strong trend persistence"
	}

	return models.VolatilityRegime{
		Regime:      regime,
		VixLevel:    vixLevel,
		Multiplier:  multiplier,
		Description: description,
		Timestamp:   time.Now(),
	}
}
