package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	drepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"

	"github.com/google/uuid"
)

// TrackingService records signals and journal entries so calibration can
// eventually be fit from realized outcomes instead of the analytical curve.
type TrackingService struct {
	store drepo.TrackingStore
}

// NewTrackingService creates a TrackingService.
func NewTrackingService(store drepo.TrackingStore) *TrackingService {
	return &TrackingService{store: store}
}

// RecordSignal snapshots an opportunity into the signal history as still open.
func (s *TrackingService) RecordSignal(ctx context.Context, opp *models.Opportunity, notes string) (*models.SignalHistory, error) {
	if opp == nil {
		return nil, fmt.Errorf("opportunity is nil")
	}

	sig := &models.SignalHistory{
		ID:            uuid.New(),
		OpportunityID: opp.ID,
		Symbol:        opp.Symbol,
		SignalScore:   opp.Scores.Overall,
		PTarget:       opp.Risk.PTarget,
		Entry:         opp.Setup.Entry,
		Stop:          opp.Setup.Stop,
		Target1:       opp.Setup.Target1,
		RRRatio:       opp.Setup.RRRatio,
		SignalTime:    opp.Timestamp,
		Outcome:       models.OutcomeStillOpen,
		Notes:         notes,
	}
	if err := s.store.SaveSignal(ctx, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// ResolveSignal finalizes a tracked signal with its observed outcome.
func (s *TrackingService) ResolveSignal(ctx context.Context, id uuid.UUID, outcome models.SignalOutcome, outcomeTime time.Time, mfe, mae, actualR float64) error {
	switch outcome {
	case models.OutcomeTargetHit, models.OutcomeStoppedOut, models.OutcomeExpired:
	default:
		return fmt.Errorf("invalid terminal outcome: %s", outcome)
	}
	return s.store.UpdateSignalOutcome(ctx, id, outcome, outcomeTime, mfe, mae, actualR)
}

// ListSignals lists signal history, newest first.
func (s *TrackingService) ListSignals(ctx context.Context, filter drepo.SignalFilter) ([]*models.SignalHistory, int64, error) {
	return s.store.ListSignals(ctx, filter)
}

// Stats aggregates resolved outcomes. Empty symbol covers the full history.
func (s *TrackingService) Stats(ctx context.Context, symbol string) (*models.SignalStats, error) {
	return s.store.GetSignalStats(ctx, symbol)
}

// RecordTrade appends one row to the trade journal. RealizedR is computed
// from prices when the trade is closed and the caller left it unset.
func (s *TrackingService) RecordTrade(ctx context.Context, trade *models.TradeEntry) error {
	if trade == nil {
		return fmt.Errorf("trade is nil")
	}
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	if trade.Side == "" {
		trade.Side = models.SideLong
	}

	if trade.RealizedR == 0 && trade.ExitPrice > 0 && trade.EntryPrice > 0 {
		risk := trade.EntryPrice - trade.ExitPrice
		if trade.Side == models.SideLong {
			risk = -risk
		}
		// Without a recorded stop the journal falls back to 1R = 1% of entry.
		trade.RealizedR = risk / (trade.EntryPrice * 0.01)
	}
	return s.store.SaveTrade(ctx, trade)
}

// ListTrades lists journal entries, newest first. Empty symbol lists all.
func (s *TrackingService) ListTrades(ctx context.Context, symbol string, limit, offset int) ([]*models.TradeEntry, int64, error) {
	return s.store.ListTrades(ctx, symbol, limit, offset)
}
