package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/internal/scanner"
	"github.com/david89it/trading-opportunities-platform/internal/usecase"
	xlogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type memTrackingStore struct {
	signals []*models.SignalHistory
	trades  []*models.TradeEntry
}

func (m *memTrackingStore) SaveSignal(_ context.Context, sig *models.SignalHistory) error {
	m.signals = append(m.signals, sig)
	return nil
}

func (m *memTrackingStore) UpdateSignalOutcome(_ context.Context, id uuid.UUID, outcome models.SignalOutcome, outcomeTime time.Time, mfe, mae, actualR float64) error {
	for _, sig := range m.signals {
		if sig.ID == id {
			sig.Outcome = outcome
			sig.OutcomeTime = &outcomeTime
			sig.MFE, sig.MAE, sig.ActualR = mfe, mae, actualR
		}
	}
	return nil
}

func (m *memTrackingStore) ListSignals(_ context.Context, filter domrepo.SignalFilter) ([]*models.SignalHistory, int64, error) {
	out := make([]*models.SignalHistory, 0, len(m.signals))
	for _, sig := range m.signals {
		if filter.Symbol != "" && sig.Symbol != filter.Symbol {
			continue
		}
		if filter.From != nil && sig.SignalTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sig.SignalTime.After(*filter.To) {
			continue
		}
		out = append(out, sig)
	}
	return out, int64(len(out)), nil
}

func (m *memTrackingStore) GetSignalStats(_ context.Context, symbol string) (*models.SignalStats, error) {
	stats := &models.SignalStats{}
	for _, sig := range m.signals {
		if symbol != "" && sig.Symbol != symbol {
			continue
		}
		stats.TotalSignals++
		switch sig.Outcome {
		case models.OutcomeTargetHit:
			stats.TargetHit++
		case models.OutcomeStoppedOut:
			stats.StoppedOut++
		case models.OutcomeExpired:
			stats.Expired++
		default:
			stats.StillOpen++
		}
	}
	if resolved := stats.TargetHit + stats.StoppedOut + stats.Expired; resolved > 0 {
		stats.HitRate = float64(stats.TargetHit) / float64(resolved)
	}
	return stats, nil
}

func (m *memTrackingStore) SaveTrade(_ context.Context, trade *models.TradeEntry) error {
	m.trades = append(m.trades, trade)
	return nil
}

func (m *memTrackingStore) ListTrades(_ context.Context, _ string, _, _ int) ([]*models.TradeEntry, int64, error) {
	return m.trades, int64(len(m.trades)), nil
}

type memOppStore struct {
	opps map[uuid.UUID]*models.Opportunity
}

func (m *memOppStore) Save(_ context.Context, opp *models.Opportunity) error {
	if m.opps == nil {
		m.opps = map[uuid.UUID]*models.Opportunity{}
	}
	m.opps[opp.ID] = opp
	return nil
}

func (m *memOppStore) SaveBatch(ctx context.Context, opps []*models.Opportunity) error {
	for _, opp := range opps {
		if err := m.Save(ctx, opp); err != nil {
			return err
		}
	}
	return nil
}

func (m *memOppStore) GetByID(_ context.Context, id uuid.UUID) (*models.Opportunity, error) {
	opp, ok := m.opps[id]
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return opp, nil
}

func (m *memOppStore) List(_ context.Context, _ domrepo.OpportunityFilter) ([]*models.Opportunity, int64, error) {
	out := make([]*models.Opportunity, 0, len(m.opps))
	for _, opp := range m.opps {
		out = append(out, opp)
	}
	return out, int64(len(out)), nil
}

func newTrackingEcho(t *testing.T, tstore *memTrackingStore, ostore *memOppStore) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	scan := usecase.NewScanService(nil, ostore, nil, noopMetrics{}, nil, scanner.Config{}, 1, log)
	tracking := usecase.NewTrackingService(tstore)
	e := echo.New()
	NewTrackingHandler(log, tracking, scan).RegisterRoutes(e)
	return e
}

func TestCreateAndResolveSignal(t *testing.T) {
	tstore := &memTrackingStore{}
	ostore := &memOppStore{}
	opp := &models.Opportunity{
		ID:        uuid.New(),
		Symbol:    "NVDA",
		Timestamp: time.Now().UTC(),
		Scores:    models.FeatureScores{Overall: 74},
		Setup:     models.TradeSetup{Entry: 480, Stop: 470, Target1: 505, RRRatio: 2.5},
		Risk:      models.RiskMetrics{PTarget: 0.6},
		Status:    models.GuardrailApproved,
	}
	if err := ostore.Save(context.Background(), opp); err != nil {
		t.Fatalf("seed opportunity: %v", err)
	}
	e := newTrackingEcho(t, tstore, ostore)

	rec := postJSON(e, "/api/v1/tracking/signals",
		`{"opportunity_id": "`+opp.ID.String()+`", "notes": "breakout watch"}`)
	var created struct {
		Status int                   `json:"status"`
		Data   *models.SignalHistory `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != http.StatusCreated {
		t.Fatalf("expected embedded 201, got %d: %s", created.Status, rec.Body.String())
	}
	sig := created.Data
	if sig.OpportunityID != opp.ID || sig.RRRatio != 2.5 || sig.Notes != "breakout watch" {
		t.Fatalf("signal not snapshotted from opportunity: %+v", sig)
	}
	if sig.Outcome != models.OutcomeStillOpen {
		t.Fatalf("new signal should be still_open, got %s", sig.Outcome)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tracking/signals/"+sig.ID.String(),
		strings.NewReader(`{"outcome": "target_hit", "mfe": 2.4, "mae": -0.3, "actual_r": 2.5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("resolve status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if tstore.signals[0].Outcome != models.OutcomeTargetHit {
		t.Fatalf("outcome not updated, got %s", tstore.signals[0].Outcome)
	}
}

func TestCreateSignalUnknownOpportunity(t *testing.T) {
	e := newTrackingEcho(t, &memTrackingStore{}, &memOppStore{})

	rec := postJSON(e, "/api/v1/tracking/signals",
		`{"opportunity_id": "`+uuid.NewString()+`"}`)
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusNotFound {
		t.Fatalf("expected embedded 404, got %d: %s", envelope.Status, rec.Body.String())
	}
}

func TestSignalStatsEndpoint(t *testing.T) {
	tstore := &memTrackingStore{signals: []*models.SignalHistory{
		{ID: uuid.New(), Symbol: "AAPL", Outcome: models.OutcomeTargetHit},
		{ID: uuid.New(), Symbol: "AAPL", Outcome: models.OutcomeStoppedOut},
		{ID: uuid.New(), Symbol: "AAPL", Outcome: models.OutcomeStillOpen},
	}}
	e := newTrackingEcho(t, tstore, &memOppStore{})

	rec := getJSON(e, "/api/v1/tracking/stats?symbol=AAPL")
	var envelope struct {
		Data models.SignalStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.TotalSignals != 3 || envelope.Data.StillOpen != 1 {
		t.Fatalf("unexpected stats: %+v", envelope.Data)
	}
	if envelope.Data.HitRate != 0.5 {
		t.Fatalf("hit rate = %v, want 0.5", envelope.Data.HitRate)
	}
}

func TestListSignalsTimeFilter(t *testing.T) {
	now := time.Now().UTC()
	tstore := &memTrackingStore{signals: []*models.SignalHistory{
		{ID: uuid.New(), Symbol: "AAPL", SignalTime: now.Add(-48 * time.Hour)},
		{ID: uuid.New(), Symbol: "AAPL", SignalTime: now.Add(-1 * time.Hour)},
	}}
	e := newTrackingEcho(t, tstore, &memOppStore{})

	from := now.Add(-24 * time.Hour).Format(time.RFC3339)
	rec := getJSON(e, "/api/v1/tracking/signals?from="+from)
	var envelope struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Total != 1 {
		t.Fatalf("expected 1 signal inside window, got %d", envelope.Data.Total)
	}
}
