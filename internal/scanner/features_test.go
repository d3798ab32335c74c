package scanner

import (
	"errors"
	"testing"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
)

// risingBars returns n bars with closes rising linearly from lo to hi.
func risingBars(n int, lo, hi float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		c := lo + (hi-lo)*float64(i)/float64(n-1)
		bars[i] = models.Bar{
			Open:   c - 0.1,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestComputeFeaturesInsufficientData(t *testing.T) {
	bars := risingBars(49, 100, 110)
	snap := &models.Snapshot{Symbol: "AAPL", Price: 110, Volume: 1_000_000}

	_, err := ComputeFeatures(bars, snap)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComputeFeaturesRisingMarket(t *testing.T) {
	bars := risingBars(60, 100, 130)
	snap := &models.Snapshot{Symbol: "AAPL", Price: 130, Volume: 1_000_000}

	f, err := ComputeFeatures(bars, snap)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if f.EMA20 >= f.Price {
		t.Fatalf("in a rising market price should lead EMA20: price=%v ema20=%v", f.Price, f.EMA20)
	}
	if !(f.EMA20 > f.EMA50) {
		t.Fatalf("rising market should stack EMAs: ema20=%v ema50=%v", f.EMA20, f.EMA50)
	}
	if f.ATR <= 0 {
		t.Fatalf("ATR should be positive, got %v", f.ATR)
	}
	if f.RSI14 < 99 {
		t.Fatalf("monotone rise should pin RSI near 100, got %v", f.RSI14)
	}
	if f.RVol < 0.99 || f.RVol > 1.01 {
		t.Fatalf("constant volume should give rvol ~1, got %v", f.RVol)
	}
	if f.VWAPDistancePct <= 0 {
		t.Fatalf("price should be above running VWAP, got %v", f.VWAPDistancePct)
	}
}

func TestComputeFeaturesSpreadFallback(t *testing.T) {
	bars := risingBars(60, 100, 110)

	// No quote at all.
	snap := &models.Snapshot{Symbol: "X", Price: 110, Volume: 1_000_000}
	f, err := ComputeFeatures(bars, snap)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if f.BidAskSpreadBps != 50 {
		t.Fatalf("missing quote should default to 50bps, got %v", f.BidAskSpreadBps)
	}

	// Valid quote: 109.9 / 110.1, mid 110, spread 0.2 -> ~18.2 bps.
	snap.Bid, snap.Ask = 109.9, 110.1
	f, err = ComputeFeatures(bars, snap)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if f.BidAskSpreadBps < 18 || f.BidAskSpreadBps > 19 {
		t.Fatalf("expected ~18.2bps, got %v", f.BidAskSpreadBps)
	}
}

func TestComputeFeaturesZeroVolumeAverage(t *testing.T) {
	bars := risingBars(60, 100, 110)
	for i := range bars {
		bars[i].Volume = 0
	}
	snap := &models.Snapshot{Symbol: "X", Price: 110, Volume: 500}

	f, err := ComputeFeatures(bars, snap)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if f.RVol != 1.0 {
		t.Fatalf("zero volume average should default rvol to 1.0, got %v", f.RVol)
	}
}
