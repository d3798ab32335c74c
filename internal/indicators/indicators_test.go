package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEMASeedsWithSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got := EMA(prices, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	if !almostEqual(got[0], 2.0, 1e-9) {
		t.Fatalf("seed should be SMA(1,2,3)=2, got %v", got[0])
	}
	// alpha = 2/4 = 0.5; next = 0.5*4 + 0.5*2 = 3
	if !almostEqual(got[1], 3.0, 1e-9) {
		t.Fatalf("expected 3.0, got %v", got[1])
	}
}

func TestEMAInsufficientData(t *testing.T) {
	if got := EMA([]float64{1, 2}, 3); got != nil {
		t.Fatalf("expected nil for short input, got %v", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	got := RSI(prices, 14)
	if len(got) == 0 {
		t.Fatalf("expected values")
	}
	for _, v := range got {
		if v != 100 {
			t.Fatalf("monotone rise should pin RSI at 100, got %v", v)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	prices := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00,
		46.03, 46.41, 46.22, 45.64,
	}
	got := RSI(prices, 14)
	if len(got) == 0 {
		t.Fatalf("expected values")
	}
	for _, v := range got {
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of bounds: %v", v)
		}
	}
}

func TestATRSimpleRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 101
		lows[i] = 99
		closes[i] = 100
	}
	got := ATR(highs, lows, closes, 14)
	if len(got) != n-14 {
		t.Fatalf("expected %d values, got %d", n-14, len(got))
	}
	for _, v := range got {
		if !almostEqual(v, 2.0, 1e-9) {
			t.Fatalf("constant 2-point range should give ATR=2, got %v", v)
		}
	}
}

func TestVWAPZeroVolumeFallback(t *testing.T) {
	highs := []float64{10, 12}
	lows := []float64{8, 10}
	closes := []float64{9, 11}
	volumes := []float64{0, 100}

	got := VWAP(highs, lows, closes, volumes)
	if len(got) != 2 {
		t.Fatalf("expected 2 values, got %d", len(got))
	}
	if got[0] != 9 {
		t.Fatalf("zero-volume point should emit close, got %v", got[0])
	}
	if !almostEqual(got[1], 11.0, 1e-9) {
		t.Fatalf("expected typical price 11, got %v", got[1])
	}
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4}, 2)
	want := []float64{1.5, 2.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Fatalf("at %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := Percentile(values, 3); !almostEqual(got, 60, 1e-9) {
		t.Fatalf("expected 60, got %v", got)
	}
	if got := Percentile(values, 0.5); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Percentile(nil, 1); got != 50 {
		t.Fatalf("empty input should map to neutral 50, got %v", got)
	}
}

func TestPivotDetection(t *testing.T) {
	// A clear peak in the middle of the eligible region.
	n := 41
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 100
		lows[i] = 90
	}
	highs[25] = 120
	lows[25] = 80

	ph, ok := PivotHigh(highs, 10)
	if !ok || ph != 120 {
		t.Fatalf("expected pivot high 120, got %v ok=%v", ph, ok)
	}
	pl, ok := PivotLow(lows, 10)
	if !ok || pl != 80 {
		t.Fatalf("expected pivot low 80, got %v ok=%v", pl, ok)
	}
}

func TestPivotNoneOnFlat(t *testing.T) {
	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 100
	}
	if _, ok := PivotHigh(flat, 10); ok {
		t.Fatalf("flat series has no strict extremum")
	}
}

func TestPivotProximityBands(t *testing.T) {
	n := 41
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 100
		lows[i] = 50
	}
	highs[25] = 200
	lows[25] = 40

	tests := []struct {
		price float64
		want  float64
	}{
		{200.5, 10}, // 0.25% from pivot high
		{198.5, 8},  // ~0.76%
		{196.5, 6},  // ~1.78%
		{192.0, 3},  // ~4.2%
		{150.0, 0},  // far from both pivots
	}
	for _, tt := range tests {
		if got := PivotProximityScore(tt.price, highs, lows); got != tt.want {
			t.Fatalf("price %v: expected %v, got %v", tt.price, tt.want, got)
		}
	}
}

func TestLinearPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	// idx = 3 * 0.95 = 2.85 -> 3*0.15 + 4*0.85 = 3.85
	if got := LinearPercentile(values, 95); !almostEqual(got, 3.85, 1e-9) {
		t.Fatalf("expected 3.85, got %v", got)
	}
	if got := LinearPercentile(values, 0); got != 1 {
		t.Fatalf("expected min, got %v", got)
	}
	if got := LinearPercentile(values, 100); got != 4 {
		t.Fatalf("expected max, got %v", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); !almostEqual(got, 2.5, 1e-9) {
		t.Fatalf("expected 2.5, got %v", got)
	}
}
