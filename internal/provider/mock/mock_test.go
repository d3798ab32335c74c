package mock

import (
	"context"
	"testing"
)

func TestGetBarsDeterministic(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	a, err := p.GetBars(ctx, "AAPL", 60)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	b, err := p.GetBars(ctx, "AAPL", 60)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}

	if len(a) != 60 {
		t.Fatalf("expected 60 bars, got %d", len(a))
	}
	for i := range a {
		if a[i].Close != b[i].Close || a[i].Volume != b[i].Volume {
			t.Fatalf("same symbol should generate identical bars, differ at %d", i)
		}
	}
}

func TestGetBarsShape(t *testing.T) {
	p := NewProvider()
	bars, err := p.GetBars(context.Background(), "ZZXX", 50)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}

	for i, b := range bars {
		if b.High < b.Low {
			t.Fatalf("bar %d: high %v below low %v", i, b.High, b.Low)
		}
		if b.Close <= 0 || b.Open <= 0 {
			t.Fatalf("bar %d: non-positive price", i)
		}
		if b.Volume <= 0 {
			t.Fatalf("bar %d: non-positive volume", i)
		}
		if i > 0 && !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			t.Fatalf("bars should be ordered oldest first")
		}
	}
}

func TestGetBarsSharedTail(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	long, err := p.GetBars(ctx, "AAPL", 200)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	short, err := p.GetBars(ctx, "AAPL", 50)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}

	// Different fetch depths must agree on the recent history.
	offset := len(long) - len(short)
	for i := range short {
		if short[i].Close != long[offset+i].Close {
			t.Fatalf("tails diverge at %d: %v vs %v", i, short[i].Close, long[offset+i].Close)
		}
	}

	snap, err := p.GetSnapshot(ctx, "AAPL")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap.Price != long[len(long)-1].Close {
		t.Fatalf("snapshot price %v should match the last bar close %v", snap.Price, long[len(long)-1].Close)
	}
	if snap.PrevDay.Close != long[len(long)-2].Close {
		t.Fatalf("prev day should be the penultimate bar")
	}
}

func TestGetSnapshotQuote(t *testing.T) {
	p := NewProvider()
	snap, err := p.GetSnapshot(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}

	if snap.Symbol != "MSFT" {
		t.Fatalf("expected symbol MSFT, got %s", snap.Symbol)
	}
	if !(snap.Bid < snap.Price && snap.Price < snap.Ask) {
		t.Fatalf("quote should straddle price: bid=%v price=%v ask=%v", snap.Bid, snap.Price, snap.Ask)
	}
	if snap.PrevDay == nil {
		t.Fatalf("expected previous-day bar")
	}
}
