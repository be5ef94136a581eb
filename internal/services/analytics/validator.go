package analytics

import (
	"fmt"
	"math"
	"sort"

	"MacroSignal/internal/domain/models"
)

const (
	gapRatioLimit     = 0.10
	outlierRatioLimit = 0.05
	skewnessLimit     = 2.0
	minValidQuality   = 0.7
)

// Validator performs statistical validation of raw value series before any
// Z-score math runs on them.
type Validator struct{}

// NewValidator creates a quality validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate scores a raw series against an asset-class profile. Fatal
// conditions (too few points, zero variance) short-circuit with quality 0;
// gaps, outliers and skew only gate the quality score downward.
func (v *Validator) Validate(values []float64, profile models.AssetClassProfile) models.ValidationResult {
	if len(values) < profile.MinimumPoints {
		deficit := profile.MinimumPoints - len(values)
		return models.ValidationResult{
			IsValid: false,
			Quality: 0,
			Issues:  []string{fmt.Sprintf("insufficient data: have %d, need %d", len(values), profile.MinimumPoints)},
			Recommendations: []string{
				fmt.Sprintf("collect %d more observations before computing signals", deficit),
			},
		}
	}

	var (
		issues          []string
		recommendations []string
	)

	finite := FilterFinite(values)
	gapRatio := float64(len(values)-len(finite)) / float64(len(values))
	if gapRatio > gapRatioLimit {
		issues = append(issues, fmt.Sprintf("gap ratio %.2f exceeds %.2f", gapRatio, gapRatioLimit))
		recommendations = append(recommendations, "backfill missing observations from the source")
	}

	// Everything below divides by counts derived from the finite subset.
	if len(finite) < 2 {
		issues = append(issues, "fewer than 2 finite observations")
		return models.ValidationResult{
			IsValid:         false,
			Quality:         0,
			Issues:          issues,
			Recommendations: append(recommendations, "verify the source is emitting numeric values"),
		}
	}

	outlierRatio := iqrOutlierRatio(finite)
	if outlierRatio > outlierRatioLimit {
		issues = append(issues, fmt.Sprintf("outlier ratio %.2f exceeds %.2f", outlierRatio, outlierRatioLimit))
		recommendations = append(recommendations, "inspect the source for bad prints or unit changes")
	}

	mean, variance := sampleMoments(finite)
	if variance == 0 {
		issues = append(issues, "zero variance")
		return models.ValidationResult{
			IsValid:         false,
			Quality:         0,
			Issues:          issues,
			Recommendations: append(recommendations, "source looks stale or misconfigured; verify it is updating"),
		}
	}

	skew := skewness(finite, mean, variance)
	if math.Abs(skew) > skewnessLimit {
		issues = append(issues, fmt.Sprintf("skewness %.2f indicates a non-normal distribution", skew))
		recommendations = append(recommendations, "interpret z-scores with caution; distribution is heavily skewed")
	}

	quality := 1.0
	quality *= math.Max(0, 1-2*gapRatio)
	quality *= math.Max(0, 1-4*outlierRatio)
	quality *= math.Max(0, 1-math.Abs(skew)/4)

	return models.ValidationResult{
		IsValid:         quality > minValidQuality,
		Quality:         quality,
		Issues:          issues,
		Recommendations: recommendations,
	}
}

// FilterFinite drops NaN and infinite entries, preserving order.
func FilterFinite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// iqrOutlierRatio flags values outside [Q1-1.5*IQR, Q3+1.5*IQR].
func iqrOutlierRatio(finite []float64) float64 {
	sorted := make([]float64, len(finite))
	copy(sorted, finite)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	outliers := 0
	for _, v := range finite {
		if v < lower || v > upper {
			outliers++
		}
	}
	return float64(outliers) / float64(n)
}

// sampleMoments returns the sample mean and sample variance (N-1 denominator).
func sampleMoments(finite []float64) (mean, variance float64) {
	n := float64(len(finite))
	sum := 0.0
	for _, v := range finite {
		sum += v
	}
	mean = sum / n

	ss := 0.0
	for _, v := range finite {
		d := v - mean
		ss += d * d
	}
	variance = ss / (n - 1)
	return mean, variance
}

// skewness is the third standardized moment over N.
func skewness(finite []float64, mean, variance float64) float64 {
	if variance == 0 {
		return 0
	}
	std := math.Sqrt(variance)
	n := float64(len(finite))
	sum := 0.0
	for _, v := range finite {
		d := (v - mean) / std
		sum += d * d * d
	}
	return sum / n
}
