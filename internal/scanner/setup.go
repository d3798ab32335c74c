package scanner

import (
	"math"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
)

const (
	stopATRMultiple = 1.5
	target1Multiple = 2.5
	target2Multiple = 4.0
)

// GenerateSetup derives a long-only trade plan from the current price and
// ATR. A non-positive risk per share yields a degenerate zero-size setup
// rather than an error, since pathological ATR/price combinations are
// expected during batch scans.
func GenerateSetup(f *models.FeatureSet, cfg Config) models.TradeSetup {
	entry := f.Price
	stop := entry - stopATRMultiple*f.ATR
	risk := entry - stop

	if risk <= 0 {
		return models.TradeSetup{Entry: entry, Stop: stop}
	}

	target1 := entry + target1Multiple*risk
	target2 := entry + target2Multiple*risk

	shares, usd := PositionSize(entry, stop, cfg.PortfolioValue, cfg.RiskPct)

	return models.TradeSetup{
		Entry:             entry,
		Stop:              stop,
		Target1:           target1,
		Target2:           target2,
		PositionSizeShare: shares,
		PositionSizeUSD:   usd,
		RRRatio:           (target1 - entry) / risk,
	}
}

// PositionSize returns (shares, usd) such that a stop-out loses at most
// portfolioValue*riskPct. Returns (0, 0) when risk per share is non-positive.
func PositionSize(entry, stop, portfolioValue, riskPct float64) (int, float64) {
	riskPerShare := math.Abs(entry - stop)
	if riskPerShare <= 0 {
		return 0, 0
	}

	maxRiskDollars := portfolioValue * riskPct
	shares := int(maxRiskDollars / riskPerShare)
	return shares, float64(shares) * entry
}
