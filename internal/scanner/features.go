package scanner

import (
	"errors"
	"fmt"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	"github.com/david89it/trading-opportunities-platform/internal/indicators"
)

// MinBars is the minimum history length required for reliable features.
const MinBars = 50

// HistoryBars is the history depth callers should fetch so the slow EMA has
// a full window. Symbols with at least MinBars are still scored; the slower
// indicators fall back to neutral values on short history.
const HistoryBars = 200

const (
	emaFast   = 20
	emaMedium = 50
	emaSlow   = 200

	rsiPeriod       = 14
	atrPeriod       = 14
	volumeSMAPeriod = 20

	// Spread assumed when a quote is missing or crossed, in basis points.
	defaultSpreadBps = 50.0
)

// ErrInsufficientData is returned when fewer than MinBars bars are supplied.
// Callers skip the symbol; a multi-symbol scan must not abort on it.
var ErrInsufficientData = errors.New("insufficient historical data for feature computation")

// ComputeFeatures builds a FeatureSet from historical bars (oldest first) and
// the current snapshot. Indicators that cannot be computed from the given
// history fall back to neutral values rather than failing the scan.
func ComputeFeatures(bars []models.Bar, snapshot *models.Snapshot) (*models.FeatureSet, error) {
	if len(bars) < MinBars {
		return nil, fmt.Errorf("%w: got %d bars, need %d", ErrInsufficientData, len(bars), MinBars)
	}
	if snapshot == nil {
		return nil, errors.New("snapshot is required")
	}

	n := len(bars)
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		opens[i] = b.Open
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	currentPrice := snapshot.Price
	if currentPrice <= 0 {
		currentPrice = closes[n-1]
	}
	currentVolume := snapshot.Volume
	if currentVolume <= 0 {
		currentVolume = bars[n-1].Volume
	}

	ema20 := indicators.EMA(closes, emaFast)
	ema50 := indicators.EMA(closes, emaMedium)
	ema200 := indicators.EMA(closes, emaSlow)
	rsi := indicators.RSI(closes, rsiPeriod)
	atr := indicators.ATR(highs, lows, closes, atrPeriod)
	vwap := indicators.VWAP(highs, lows, closes, volumes)
	volumeSMA := indicators.SMA(volumes, volumeSMAPeriod)

	curEMA20 := last(ema20, currentPrice)
	curEMA50 := last(ema50, currentPrice)
	curEMA200 := last(ema200, currentPrice)
	curRSI := last(rsi, 50.0)
	curATR := last(atr, 0.02*currentPrice)
	curVWAP := last(vwap, currentPrice)
	curVolumeSMA := last(volumeSMA, float64(currentVolume))

	atrWindow := atr
	if len(atr) > volumeSMAPeriod {
		atrWindow = atr[len(atr)-volumeSMAPeriod:]
	}

	rvol := 1.0
	if curVolumeSMA > 0 {
		rvol = float64(currentVolume) / curVolumeSMA
	}

	gapPct := 0.0
	if n > 1 && closes[n-2] != 0 {
		gapPct = (opens[n-1] - closes[n-2]) / closes[n-2]
	}

	return &models.FeatureSet{
		Price:  currentPrice,
		Volume: currentVolume,

		EMA20:  curEMA20,
		EMA50:  curEMA50,
		EMA200: curEMA200,
		RSI14:  curRSI,

		ATR:           curATR,
		ATRPercent:    curATR / currentPrice * 100,
		ATRPercentile: indicators.Percentile(atrWindow, curATR),

		VWAP:            curVWAP,
		VWAPDistancePct: (currentPrice - curVWAP) / curVWAP,

		VolumeAvg20: curVolumeSMA,
		RVol:        rvol,

		PivotProximityScore: indicators.PivotProximityScore(currentPrice, highs, lows),

		DailyRangePct:   (highs[n-1] - lows[n-1]) / closes[n-1] * 100,
		GapPct:          gapPct,
		BidAskSpreadBps: snapshot.SpreadBps(defaultSpreadBps),
	}, nil
}

func last(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return values[len(values)-1]
}
