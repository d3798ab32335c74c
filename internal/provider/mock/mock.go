// Package mock generates plausible market data for offline development and
// tests. Output is deterministic per symbol so repeated scans agree.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
)

// Price ranges for well-known tickers; anything else gets a hash-derived band.
var symbolRanges = map[string][2]float64{
	"AAPL":  {175, 185},
	"GOOGL": {135, 145},
	"MSFT":  {375, 385},
	"AMZN":  {145, 155},
	"TSLA":  {240, 260},
	"NVDA":  {470, 490},
	"META":  {310, 330},
	"NFLX":  {425, 445},
	"AMD":   {105, 115},
	"CRM":   {250, 270},
	"UBER":  {58, 68},
	"SHOP":  {65, 75},
}

// Provider implements the MarketData interface with synthetic data.
type Provider struct {
	now func() time.Time
}

// NewProvider creates a mock market-data provider.
func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

// walkLength is how many steps every synthetic walk takes. Requests for
// fewer bars get the tail, so any fetch depth up to walkLength sees the same
// recent history and the snapshot always matches the last bar.
const walkLength = 250

// GetBars generates count daily bars as a gently trending random walk,
// oldest first.
func (p *Provider) GetBars(_ context.Context, symbol string, count int) ([]models.Bar, error) {
	if count <= 0 {
		return nil, fmt.Errorf("bar count must be positive")
	}

	n := walkLength
	if count > n {
		n = count
	}
	bars := p.walk(symbol, n)
	return bars[n-count:], nil
}

func (p *Provider) walk(symbol string, n int) []models.Bar {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))
	lo, hi := priceRange(symbol)
	price := lo + rng.Float64()*(hi-lo)
	drift := 0.0008 + rng.Float64()*0.0012 // mild upward drift

	end := p.now().UTC().Truncate(24 * time.Hour)
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		change := price * (drift + rng.NormFloat64()*0.012)
		open := price
		close := price + change

		high := math.Max(open, close) * (1 + rng.Float64()*0.006)
		low := math.Min(open, close) * (1 - rng.Float64()*0.006)
		volume := int64(800_000 + rng.Intn(2_400_000))

		bars[i] = models.Bar{
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			Timestamp: end.AddDate(0, 0, i-n+1),
		}
		price = close
	}
	return bars
}

// GetSnapshot derives the current view from the final step of the walk with a
// tight synthetic quote around the close.
func (p *Provider) GetSnapshot(_ context.Context, symbol string) (*models.Snapshot, error) {
	bars := p.walk(symbol, walkLength)

	last := bars[walkLength-1]
	prev := bars[walkLength-2]
	half := last.Close * 0.0005 // ~10bps spread

	return &models.Snapshot{
		Symbol:    symbol,
		Price:     last.Close,
		Volume:    last.Volume,
		Bid:       last.Close - half,
		Ask:       last.Close + half,
		PrevDay:   &prev,
		UpdatedAt: p.now().UTC(),
	}, nil
}

func priceRange(symbol string) (float64, float64) {
	if r, ok := symbolRanges[symbol]; ok {
		return r[0], r[1]
	}
	base := 20 + float64(symbolSeed(symbol)%400)
	return base, base * 1.06
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return int64(h.Sum64() & math.MaxInt64)
}
