package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	drepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"

	"github.com/google/uuid"
)

type fakeTrackingStore struct {
	signals []*models.SignalHistory
	trades  []*models.TradeEntry
	updated map[uuid.UUID]models.SignalOutcome
}

func (f *fakeTrackingStore) SaveSignal(_ context.Context, sig *models.SignalHistory) error {
	f.signals = append(f.signals, sig)
	return nil
}

func (f *fakeTrackingStore) UpdateSignalOutcome(_ context.Context, id uuid.UUID, outcome models.SignalOutcome, _ time.Time, _, _, _ float64) error {
	if f.updated == nil {
		f.updated = map[uuid.UUID]models.SignalOutcome{}
	}
	f.updated[id] = outcome
	return nil
}

func (f *fakeTrackingStore) ListSignals(_ context.Context, _ drepo.SignalFilter) ([]*models.SignalHistory, int64, error) {
	return f.signals, int64(len(f.signals)), nil
}

func (f *fakeTrackingStore) GetSignalStats(_ context.Context, _ string) (*models.SignalStats, error) {
	stats := &models.SignalStats{TotalSignals: int64(len(f.signals))}
	for _, sig := range f.signals {
		if sig.Outcome == models.OutcomeStillOpen {
			stats.StillOpen++
		}
	}
	return stats, nil
}

func (f *fakeTrackingStore) SaveTrade(_ context.Context, trade *models.TradeEntry) error {
	f.trades = append(f.trades, trade)
	return nil
}

func (f *fakeTrackingStore) ListTrades(_ context.Context, _ string, _, _ int) ([]*models.TradeEntry, int64, error) {
	return f.trades, int64(len(f.trades)), nil
}

func TestRecordSignalFromOpportunity(t *testing.T) {
	store := &fakeTrackingStore{}
	svc := NewTrackingService(store)

	opp := &models.Opportunity{
		ID:        uuid.New(),
		Symbol:    "NVDA",
		Timestamp: time.Now().UTC(),
		Scores:    models.FeatureScores{Overall: 78},
		Setup:     models.TradeSetup{Entry: 480, Stop: 470, Target1: 505},
		Risk:      models.RiskMetrics{PTarget: 0.62},
	}

	sig, err := svc.RecordSignal(context.Background(), opp, "breakout watch")
	if err != nil {
		t.Fatalf("record signal: %v", err)
	}
	if sig.Outcome != models.OutcomeStillOpen {
		t.Fatalf("new signal should be still_open, got %s", sig.Outcome)
	}
	if sig.OpportunityID != opp.ID || sig.SignalScore != 78 || sig.Entry != 480 {
		t.Fatalf("signal fields not copied from opportunity: %+v", sig)
	}
	if len(store.signals) != 1 {
		t.Fatalf("signal not persisted")
	}
}

func TestResolveSignalRejectsNonTerminal(t *testing.T) {
	store := &fakeTrackingStore{}
	svc := NewTrackingService(store)
	id := uuid.New()

	if err := svc.ResolveSignal(context.Background(), id, models.OutcomeStillOpen, time.Now(), 0, 0, 0); err == nil {
		t.Fatalf("still_open is not a terminal outcome")
	}
	if err := svc.ResolveSignal(context.Background(), id, models.OutcomeTargetHit, time.Now(), 2.1, -0.4, 2.5); err != nil {
		t.Fatalf("resolve signal: %v", err)
	}
	if store.updated[id] != models.OutcomeTargetHit {
		t.Fatalf("outcome not stored")
	}
}

func TestRecordTradeDefaults(t *testing.T) {
	store := &fakeTrackingStore{}
	svc := NewTrackingService(store)

	trade := &models.TradeEntry{
		Symbol:     "AMD",
		EntryPrice: 100,
		ExitPrice:  102,
		Shares:     50,
		EntryTime:  time.Now().UTC(),
	}
	if err := svc.RecordTrade(context.Background(), trade); err != nil {
		t.Fatalf("record trade: %v", err)
	}

	if trade.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if trade.Side != models.SideLong {
		t.Fatalf("expected default long side")
	}
	// 2% gain over a 1% fallback risk unit is 2R.
	if trade.RealizedR < 1.99 || trade.RealizedR > 2.01 {
		t.Fatalf("realized r = %v, want ~2", trade.RealizedR)
	}
}
