package scanner

import (
	"math"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
)

// Sub-score weights. Normalized by their sum when combined, so price
// dominates at 4/7, volume 2/7, volatility 1/7. The historical "momentum"
// weight is intentionally absent: RSI already contributes to the price score.
const (
	weightPrice      = 0.4
	weightVolume     = 0.2
	weightVolatility = 0.1
)

// ScoreFeatures maps a FeatureSet to bounded sub-scores and the weighted
// overall score. Each sub-score accumulates points on an internal 0-10 scale,
// is clamped, then rescaled to [0,100].
func ScoreFeatures(f *models.FeatureSet) models.FeatureScores {
	price := clamp10(priceScore(f)) * 10
	volume := clamp10(volumeScore(f)) * 10
	volatility := clamp10(volatilityScore(f)) * 10

	weightSum := weightPrice + weightVolume + weightVolatility
	overall := (price*weightPrice + volume*weightVolume + volatility*weightVolatility) / weightSum

	return models.FeatureScores{
		Price:      price,
		Volume:     volume,
		Volatility: volatility,
		Overall:    overall,
	}
}

func priceScore(f *models.FeatureSet) float64 {
	score := 0.0

	// Bullish EMA stack
	if f.EMA20 > f.EMA50 && f.EMA50 > f.EMA200 {
		score += 4.0
	}

	// Price position vs EMA20
	priceVsEMA20 := (f.Price - f.EMA20) / f.EMA20
	switch {
	case priceVsEMA20 > 0.02:
		score += 3.0
	case priceVsEMA20 > 0.005:
		score += 1.5
	case priceVsEMA20 < -0.02:
		score += 0.5
	}

	// RSI momentum
	rsi := f.RSI14
	switch {
	case rsi >= 45 && rsi <= 65: // sweet spot
		score += 3.0
	case (rsi >= 35 && rsi < 45) || (rsi > 65 && rsi <= 75):
		score += 2.0
	case rsi < 30: // oversold bounce potential
		score += 1.0
	}

	return score
}

func volumeScore(f *models.FeatureSet) float64 {
	score := 0.0

	switch {
	case f.RVol >= 2.0:
		score += 6.0
	case f.RVol >= 1.5:
		score += 4.0
	case f.RVol >= 1.2:
		score += 2.0
	case f.RVol < 0.5:
		score += 0.5
	}

	aboveVWAP := f.VWAPDistancePct > 0
	switch {
	case aboveVWAP && math.Abs(f.VWAPDistancePct) < 0.01:
		score += 3.0
	case aboveVWAP:
		score += 1.5
	case math.Abs(f.VWAPDistancePct) < 0.005:
		score += 2.0
	}

	// Pivot proximity contributes up to one point.
	score += f.PivotProximityScore / 10

	return score
}

func volatilityScore(f *models.FeatureSet) float64 {
	score := 0.0

	pct := f.ATRPercentile
	switch {
	case pct >= 60 && pct <= 85: // elevated but not extreme
		score += 6.0
	case (pct >= 40 && pct < 60) || (pct > 85 && pct <= 95):
		score += 4.0
	case pct > 95: // too volatile
		score += 1.0
	case pct < 20: // too quiet
		score += 2.0
	}

	switch {
	case f.BidAskSpreadBps <= 10:
		score += 4.0
	case f.BidAskSpreadBps <= 25:
		score += 3.0
	case f.BidAskSpreadBps <= 50:
		score += 1.0
	}

	return score
}

func clamp10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
