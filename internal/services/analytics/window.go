package analytics

import (
	"fmt"

	"MacroSignal/internal/domain/models"
)

// Window profiles per asset class. Windows reflect realistic sampling
// frequency (daily for equities/ETFs, monthly for economic releases);
// minimums are calibrated above the primary window so the rolling statistics
// inside it rest on a stable historical base.
var profiles = map[models.AssetClass]models.AssetClassProfile{
	models.AssetEquity:     {PrimaryWindow: 252, MinimumPoints: 1260, RollingWindow: 20},
	models.AssetETF:        {PrimaryWindow: 63, MinimumPoints: 252, RollingWindow: 20},
	models.AssetEconomic:   {PrimaryWindow: 36, MinimumPoints: 60, RollingWindow: 12},
	models.AssetVolatility: {PrimaryWindow: 22, MinimumPoints: 63, RollingWindow: 10},
}

// ProfileFor returns the window profile for an asset class. An unknown asset
// class is a caller bug, not a data condition, and fails fast.
func ProfileFor(assetClass models.AssetClass) models.AssetClassProfile {
	p, ok := profiles[assetClass]
	if !ok {
		panic(fmt.Sprintf("analytics: unknown asset class %q", assetClass))
	}
	return p
}
