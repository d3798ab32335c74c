package polygon

import (
	"context"
	"testing"

	"github.com/david89it/trading-opportunities-platform/pkg/cache"
)

const fixturesDir = "../../../fixtures/polygon"

func newFixtureClient() *Client {
	return NewClient(nil, nil, WithFixturesDir(fixturesDir))
}

func TestGetBarsFromFixture(t *testing.T) {
	c := newFixtureClient()

	bars, err := c.GetBars(context.Background(), "AAPL", 50)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if len(bars) != 50 {
		t.Fatalf("expected 50 bars after truncation, got %d", len(bars))
	}
	for i, b := range bars {
		if b.Close <= 0 || b.High < b.Low {
			t.Fatalf("bar %d malformed: %+v", i, b)
		}
		if i > 0 && !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			t.Fatalf("bars should be oldest first")
		}
	}
}

func TestGetSnapshotFromFixture(t *testing.T) {
	c := newFixtureClient()

	snap, err := c.GetSnapshot(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap.Symbol != "MSFT" {
		t.Fatalf("fixture snapshot should adopt the requested symbol, got %s", snap.Symbol)
	}
	if snap.Price <= 0 {
		t.Fatalf("expected positive price")
	}
	if !(snap.Bid < snap.Ask) {
		t.Fatalf("quote should not be crossed: bid=%v ask=%v", snap.Bid, snap.Ask)
	}
	if snap.PrevDay == nil {
		t.Fatalf("expected previous-day bar from fixture")
	}
}

func TestGetBarsUsesCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	c := NewClient(mem, nil, WithFixturesDir(fixturesDir))

	first, err := c.GetBars(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}

	// Second call must be served from cache and agree bar for bar.
	second, err := c.GetBars(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("get bars cached: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("cache changed bar count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Close != second[i].Close {
			t.Fatalf("cache changed bar %d", i)
		}
	}
}

func TestMissingFixtureFails(t *testing.T) {
	c := NewClient(nil, nil, WithFixturesDir("does-not-exist"))
	if _, err := c.GetBars(context.Background(), "AAPL", 10); err == nil {
		t.Fatalf("expected error for missing fixture dir")
	}
}
