// Package indicators provides stateless technical-indicator math over
// ordered price/volume sequences (oldest first). All functions are pure and
// safe for concurrent use.
package indicators

import (
	"math"
	"sort"
)

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(period+1). The first value is seeded with the simple average of
// the first period prices. Returns nil if len(prices) < period.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	alpha := 2.0 / float64(period+1)
	out := make([]float64, 0, len(prices)-period+1)

	var sum float64
	for _, p := range prices[:period] {
		sum += p
	}
	out = append(out, sum/float64(period))

	for i := period; i < len(prices); i++ {
		out = append(out, alpha*prices[i]+(1-alpha)*out[len(out)-1])
	}
	return out
}

// RSI computes the Wilder-smoothed relative strength index. An average loss
// of zero maps to RSI 100. Returns nil if len(prices) < period+1.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	changes := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes[i-1] = prices[i] - prices[i-1]
	}

	var avgGain, avgLoss float64
	for _, ch := range changes[:period] {
		if ch > 0 {
			avgGain += ch
		} else {
			avgLoss += -ch
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, 0, len(changes)-period)
	for i := period; i < len(changes); i++ {
		gain, loss := 0.0, 0.0
		if changes[i] > 0 {
			gain = changes[i]
		} else {
			loss = -changes[i]
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		if avgLoss == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100-100/(1+rs))
	}
	return out
}

// ATR computes the average true range. True range is
// max(high-low, |high-prevClose|, |low-prevClose|); the first value is a
// simple average over the first period true ranges, then Wilder-smoothed.
// Returns nil if fewer than period+1 bars.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(highs)
	if period <= 0 || n < period+1 || len(lows) != n || len(closes) != n {
		return nil
	}

	trs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		tr := highs[i] - lows[i]
		if hv := math.Abs(highs[i] - closes[i-1]); hv > tr {
			tr = hv
		}
		if lv := math.Abs(lows[i] - closes[i-1]); lv > tr {
			tr = lv
		}
		trs[i-1] = tr
	}

	out := make([]float64, 0, len(trs)-period+1)
	var sum float64
	for _, tr := range trs[:period] {
		sum += tr
	}
	out = append(out, sum/float64(period))

	for i := period; i < len(trs); i++ {
		out = append(out, (out[len(out)-1]*float64(period-1)+trs[i])/float64(period))
	}
	return out
}

// VWAP computes the running volume-weighted average price, one value per bar,
// with typical price (H+L+C)/3. While cumulative volume is zero the close is
// emitted as a degenerate fallback. Returns nil on length mismatch.
func VWAP(highs, lows, closes, volumes []float64) []float64 {
	n := len(closes)
	if len(volumes) != n || len(highs) != n || len(lows) != n {
		return nil
	}

	out := make([]float64, n)
	var cumPV, cumVol float64
	for i := 0; i < n; i++ {
		typical := (highs[i] + lows[i] + closes[i]) / 3
		cumPV += typical * volumes[i]
		cumVol += volumes[i]

		if cumVol > 0 {
			out[i] = cumPV / cumVol
		} else {
			out[i] = closes[i]
		}
	}
	return out
}

// SMA computes the simple moving average, one value per full window.
// Returns nil if len(values) < period.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// Percentile returns the percentile rank of current within values:
// the fraction of values <= current, scaled to [0,100]. Empty input maps to
// the neutral 50.
func Percentile(values []float64, current float64) float64 {
	if len(values) == 0 {
		return 50.0
	}
	count := 0
	for _, v := range values {
		if v <= current {
			count++
		}
	}
	return float64(count) / float64(len(values)) * 100
}

// DefaultPivotWindow is the neighborhood half-width for pivot detection.
const DefaultPivotWindow = 10

// PivotHigh scans the trailing 3*window bars for bars that are the strict
// maximum over a symmetric +-window neighborhood and returns the highest such
// value. ok is false when no pivot qualifies.
func PivotHigh(highs []float64, window int) (pivot float64, ok bool) {
	return findPivot(highs, window, func(a, b float64) bool { return a > b })
}

// PivotLow is the mirror of PivotHigh for strict minima.
func PivotLow(lows []float64, window int) (pivot float64, ok bool) {
	return findPivot(lows, window, func(a, b float64) bool { return a < b })
}

func findPivot(values []float64, window int, moreExtreme func(a, b float64) bool) (float64, bool) {
	if window <= 0 {
		window = DefaultPivotWindow
	}
	n := len(values)
	if n < 2*window+1 {
		return 0, false
	}

	start := n - 3*window
	if start < window {
		start = window
	}

	best := 0.0
	found := false
	for i := start; i < n-window; i++ {
		isPivot := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if !moreExtreme(values[i], values[j]) {
				isPivot = false
				break
			}
		}
		if isPivot && (!found || moreExtreme(values[i], best)) {
			best = values[i]
			found = true
		}
	}
	return best, found
}

// PivotProximityScore maps the relative distance from currentPrice to the
// nearest detected pivot high/low into a 0-10 score via fixed distance bands.
// Returns the best band across whichever pivots exist, 0 if none.
func PivotProximityScore(currentPrice float64, highs, lows []float64) float64 {
	if currentPrice <= 0 {
		return 0
	}

	score := 0.0
	if ph, ok := PivotHigh(highs, DefaultPivotWindow); ok {
		if s := proximityBand(math.Abs(currentPrice-ph) / currentPrice); s > score {
			score = s
		}
	}
	if pl, ok := PivotLow(lows, DefaultPivotWindow); ok {
		if s := proximityBand(math.Abs(currentPrice-pl) / currentPrice); s > score {
			score = s
		}
	}
	return score
}

func proximityBand(dist float64) float64 {
	switch {
	case dist <= 0.005:
		return 10
	case dist <= 0.01:
		return 8
	case dist <= 0.02:
		return 6
	case dist <= 0.05:
		return 3
	default:
		return 0
	}
}

// Median returns the median of values. The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// LinearPercentile returns the q-th percentile (0-100) of values using linear
// interpolation between closest ranks. The input is not modified.
func LinearPercentile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 100 {
		return sorted[n-1]
	}

	idx := float64(n-1) * q / 100
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
