package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MacroSignal/internal/domain/models"
)

func TestClassifyRegimeBoundaries(t *testing.T) {
	cases := []struct {
		name       string
		vix        float64
		regime     models.RegimeLevel
		multiplier float64
	}{
		{"deep calm", 10, models.RegimeLow, 0.7},
		{"just below low boundary", 14.99, models.RegimeLow, 0.7},
		{"low boundary is normal", 15, models.RegimeNormal, 1.0},
		{"just below normal boundary", 24.99, models.RegimeNormal, 1.0},
		{"normal boundary is high", 25, models.RegimeHigh, 1.3},
		{"high boundary is crisis", 35, models.RegimeCrisis, 1.8},
		{"extreme", 80, models.RegimeCrisis, 1.8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vr := ClassifyRegime(tc.vix)
			assert.Equal(t, tc.regime, vr.Regime)
			assert.Equal(t, tc.multiplier, vr.Multiplier)
			assert.Equal(t, tc.vix, vr.VixLevel)
			assert.NotEmpty(t, vr.Description)
			assert.False(t, vr.Timestamp.IsZero())
		})
	}
}

func TestClassifyRegimeMultiplierMonotonic(t *testing.T) {
	levels := []float64{10, 20, 30, 40}
	prev := 0.0
	for _, vix := range levels {
		mult := ClassifyRegime(vix).Multiplier
		assert.Greater(t, mult, prev, "multiplier must rise with vix %v", vix)
		prev = mult
	}
}
