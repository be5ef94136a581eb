package models

import "time"

// BatchRequest is one item of a bulk Z-score computation. Values may be
// supplied inline; when nil the coordinator fetches the series from the
// configured provider.
type BatchRequest struct {
	Symbol     string
	Metric     string
	Values     []float64
	AssetClass AssetClass
}

// Key returns the result-map key for this request.
func (r BatchRequest) Key() string { return r.Symbol + ":" + r.Metric }

// BatchReport aggregates the outcome of one bulk computation. Failed items
// are absent from Results; SuccessRate counts non-nil Z-scores over Total.
type BatchReport struct {
	Results        map[string]ZScoreResult `json:"results"`
	Total          int                     `json:"total"`
	Succeeded      int                     `json:"succeeded"`
	Failed         int                     `json:"failed"`
	SuccessRate    float64                 `json:"success_rate"`
	AverageQuality float64                 `json:"average_quality"`
	Elapsed        time.Duration           `json:"elapsed"`
	Timestamp      time.Time               `json:"timestamp"`
}
