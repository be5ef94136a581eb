package models

import "time"

// RegimeLevel is a discretized volatility environment.
type RegimeLevel string

const (
	RegimeLow    RegimeLevel = "low"
	RegimeNormal RegimeLevel = "normal"
	RegimeHigh   RegimeLevel = "high"
	RegimeCrisis RegimeLevel = "crisis"
)

// VolatilityRegime maps a volatility index level to a regime and the
// multiplier applied to signal conviction. Computed, not persisted.
type VolatilityRegime struct {
	Regime      RegimeLevel `json:"regime"`
	VixLevel    float64     `json:"vix_level"`
	Multiplier  float64     `json:"multiplier"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
}

// SignalAction is the discrete trading recommendation.
type SignalAction string

const (
	SignalStrongBuy  SignalAction = "STRONG_BUY"
	SignalBuy        SignalAction = "BUY"
	SignalHold       SignalAction = "HOLD"
	SignalSell       SignalAction = "SELL"
	SignalStrongSell SignalAction = "STRONG_SELL"
)

// TradingSignal combines a Z-score with the active volatility regime.
type TradingSignal struct {
	Signal    SignalAction     `json:"signal"`
	Strength  float64          `json:"strength"`
	Regime    VolatilityRegime `json:"regime"`
	Rationale string           `json:"rationale"`
}

// AdjustedSignal is the full volatility-adjusted view returned to callers:
// the raw score, the regime-scaled score, and the resulting signal.
type AdjustedSignal struct {
	ZScore         *float64         `json:"z_score"`
	AdjustedZScore *float64         `json:"adjusted_z_score"`
	Signal         SignalAction     `json:"signal"`
	Regime         VolatilityRegime `json:"regime"`
	Rationale      string           `json:"rationale"`
}
