package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSignal/internal/domain/models"
)

// linearSeries generates n evenly spaced values from start to end.
func linearSeries(start, end float64, n int) []float64 {
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func constantSeries(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestValidateInsufficientData(t *testing.T) {
	v := NewValidator()
	profile := ProfileFor(models.AssetETF)

	res := v.Validate(linearSeries(100, 110, 100), profile)

	assert.False(t, res.IsValid)
	assert.Zero(t, res.Quality)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0], "insufficient data")
	require.Len(t, res.Recommendations, 1)
	assert.Contains(t, res.Recommendations[0], "152 more")
}

func TestValidateExactMinimumAccepted(t *testing.T) {
	v := NewValidator()
	profile := ProfileFor(models.AssetETF)

	res := v.Validate(linearSeries(100, 150, 252), profile)

	assert.True(t, res.IsValid)
	assert.Greater(t, res.Quality, 0.9)
	assert.Empty(t, res.Issues)
}

func TestValidateZeroVariance(t *testing.T) {
	v := NewValidator()
	profile := ProfileFor(models.AssetETF)

	// Long enough but flat: invalid, not merely low quality.
	res := v.Validate(constantSeries(100, 300), profile)

	assert.False(t, res.IsValid)
	assert.Zero(t, res.Quality)
	assert.Contains(t, res.Issues, "zero variance")
}

func TestValidateGapRatioGatesQuality(t *testing.T) {
	v := NewValidator()
	profile := ProfileFor(models.AssetETF)

	// 45 of 300 entries are non-finite: gap ratio 0.15, factor 0.70.
	values := linearSeries(100, 150, 300)
	for i := 0; i < 45; i++ {
		values[i*6] = math.NaN()
	}

	res := v.Validate(values, profile)

	assert.False(t, res.IsValid) // quality must exceed 0.7, not equal it
	assert.InDelta(t, 0.7, res.Quality, 0.02)
	require.NotEmpty(t, res.Issues)
	assert.Contains(t, res.Issues[0], "gap ratio")
}

func TestValidateOutliersAndSkew(t *testing.T) {
	v := NewValidator()
	profile := ProfileFor(models.AssetEconomic)

	// 55 observations at 100 and 5 spikes at 200: outlier ratio 0.083 and
	// skewness near 2.9, both over their limits.
	values := constantSeries(100, 60)
	for i := 0; i < 5; i++ {
		values[i*11+5] = 200
	}

	res := v.Validate(values, profile)

	assert.False(t, res.IsValid)
	assert.Less(t, res.Quality, 0.7)
	require.Len(t, res.Issues, 2)
	assert.Contains(t, res.Issues[0], "outlier ratio")
	assert.Contains(t, res.Issues[1], "skewness")
}

func TestValidateAllNonFinite(t *testing.T) {
	v := NewValidator()
	profile := ProfileFor(models.AssetEconomic)

	values := make([]float64, 60)
	for i := range values {
		values[i] = math.Inf(1)
	}

	res := v.Validate(values, profile)

	assert.False(t, res.IsValid)
	assert.Zero(t, res.Quality)
	assert.Contains(t, res.Issues, "fewer than 2 finite observations")
}

func TestFilterFinite(t *testing.T) {
	in := []float64{1, math.NaN(), 2, math.Inf(1), 3, math.Inf(-1)}
	assert.Equal(t, []float64{1, 2, 3}, FilterFinite(in))
}

func TestSampleMomentsUsesBesselCorrection(t *testing.T) {
	mean, variance := sampleMoments([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 32.0/7.0, variance, 1e-9)
}
