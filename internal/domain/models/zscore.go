package models

import "time"

// AssetClass determines the window-sizing policy applied to a series.
type AssetClass string

const (
	AssetEquity     AssetClass = "equity"
	AssetETF        AssetClass = "etf"
	AssetEconomic   AssetClass = "economic"
	AssetVolatility AssetClass = "volatility"
)

// DataFrequency selects the cache TTL tier for a computed result.
type DataFrequency string

const (
	FreqRealtime DataFrequency = "realtime"
	FreqIntraday DataFrequency = "intraday"
	FreqDaily    DataFrequency = "daily"
	FreqEconomic DataFrequency = "economic"
	// FreqStatistical is the long-lived tier used by bulk recalculation,
	// never selected from a series' native sampling frequency.
	FreqStatistical DataFrequency = "statistical"
)

// Method tags how a ZScoreResult was produced. Data problems are encoded
// here rather than returned as errors.
type Method string

const (
	MethodZScore           Method = "zscore"
	MethodValidationFailed Method = "validation_failed"
	MethodInsufficientData Method = "insufficient_data"
	MethodZeroVariance     Method = "zero_variance"
)

// AssetClassProfile holds the sample window sizes for one asset class.
// MinimumPoints is deliberately looser than PrimaryWindow: the rolling
// statistics inside the primary window need a stable historical base.
type AssetClassProfile struct {
	PrimaryWindow int
	MinimumPoints int
	RollingWindow int
}

// ValidationResult is the outcome of statistical validation of a raw series.
// Derived per call, never persisted.
type ValidationResult struct {
	IsValid         bool
	Quality         float64 // in [0,1]
	Issues          []string
	Recommendations []string
}

// ZScoreResult is a standardized signal with its confidence metadata.
// ZScore is nil whenever the series could not support a defensible score;
// callers must treat nil as "no signal", not as an error.
type ZScoreResult struct {
	ZScore           *float64  `json:"z_score"`
	Quality          float64   `json:"quality"`
	Method           Method    `json:"method"`
	WindowSize       int       `json:"window_size"`
	DataPoints       int       `json:"data_points"`
	ConfidenceLevel  *float64  `json:"confidence_level"`
	StatisticalPower *float64  `json:"statistical_power"`
	Timestamp        time.Time `json:"timestamp"`
}

// CacheStats summarizes the live contents of the result cache.
type CacheStats struct {
	TotalEntries     int     `json:"total_entries"`
	AverageQuality   float64 `json:"average_quality"`
	OldestEntryAgeMs int64   `json:"oldest_entry_age_ms"`
}

// Float is a convenience for building optional float fields.
func Float(v float64) *float64 { return &v }
