// Package usecase wires the scanner pipeline and the tracking journal into
// application services consumed by the HTTP handlers.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	drepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/internal/domain/service"
	"github.com/david89it/trading-opportunities-platform/internal/scanner"
	applogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/google/uuid"
)

// Slippage assumed on top of the observed spread, in basis points.
const slippagePadBps = 5.0

// ScanService runs the full pipeline for single symbols and universes:
// features, scoring, setup, probability, costs, guardrails, persistence.
type ScanService struct {
	market  service.MarketData
	store   drepo.OpportunityStore
	pub     drepo.Publisher
	metrics drepo.Metrics
	cal     scanner.Calibrator
	cfg     scanner.Config
	workers int
	log     *applogger.Logger
}

// NewScanService creates a ScanService. pub may be nil when no broker is
// configured; approved opportunities are then only persisted.
func NewScanService(
	market service.MarketData,
	store drepo.OpportunityStore,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	cal scanner.Calibrator,
	cfg scanner.Config,
	workers int,
	log *applogger.Logger,
) *ScanService {
	if workers <= 0 {
		workers = 4
	}
	if cal == nil {
		cal = scanner.PiecewiseCalibrator{}
	}
	return &ScanService{
		market:  market,
		store:   store,
		pub:     pub,
		metrics: metrics,
		cal:     cal,
		cfg:     cfg,
		workers: workers,
		log:     log,
	}
}

// ScoreSymbol runs the pipeline for one symbol without persisting anything.
func (s *ScanService) ScoreSymbol(ctx context.Context, symbol string) (*models.Opportunity, error) {
	start := time.Now()

	depth := s.cfg.HistoryBars
	if depth <= 0 {
		depth = scanner.HistoryBars
	}
	bars, err := s.market.GetBars(ctx, symbol, depth)
	if err != nil {
		s.metrics.RecordError("get_bars")
		return nil, fmt.Errorf("get bars for %s: %w", symbol, err)
	}
	snap, err := s.market.GetSnapshot(ctx, symbol)
	if err != nil {
		s.metrics.RecordError("get_snapshot")
		return nil, fmt.Errorf("get snapshot for %s: %w", symbol, err)
	}

	features, err := scanner.ComputeFeatures(bars, snap)
	if err != nil {
		return nil, err
	}

	scores := scanner.ScoreFeatures(features)
	setup := scanner.GenerateSetup(features, s.cfg)

	pTarget := s.cal.ScoreToProbability(scores.Overall)
	slippage := features.BidAskSpreadBps + slippagePadBps
	costsR := scanner.CostsInR(slippage, s.cfg.FeesUSD, setup.Entry, setup.RiskPerShare())

	opp := &models.Opportunity{
		ID:        uuid.New(),
		Symbol:    symbol,
		Timestamp: time.Now().UTC(),
		Scores:    scores,
		Setup:     setup,
		Features:  *features,
		Risk: models.RiskMetrics{
			PTarget:      pTarget,
			CostsR:       costsR,
			SlippageBps:  slippage,
			NetExpectedR: scanner.NetExpectedR(pTarget, setup.RRRatio, costsR),
		},
		Version: models.SchemaVersion,
	}
	opp.Status, opp.Reason = scanner.CheckGuardrails(opp, s.cfg)

	s.metrics.RecordLastScore(symbol, scores.Overall)
	s.metrics.RecordLatency("score_symbol", time.Since(start).Seconds())
	return opp, nil
}

// ScanUniverse scores every symbol concurrently, keeps those at or above
// minScore, and returns them ordered by overall score descending, truncated
// to limit. Kept opportunities are persisted; approved ones are also
// published. Symbols with insufficient history are skipped, and one bad
// symbol never aborts the scan.
func (s *ScanService) ScanUniverse(ctx context.Context, symbols []string, minScore float64, limit int) ([]*models.Opportunity, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if minScore <= 0 {
		minScore = s.cfg.MinScore
	}
	start := time.Now()

	jobs := make(chan string)
	results := make(chan *models.Opportunity, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				opp, err := s.ScoreSymbol(ctx, symbol)
				if err != nil {
					if errors.Is(err, scanner.ErrInsufficientData) {
						s.metrics.RecordScan("skipped")
					} else {
						s.metrics.RecordScan("error")
						if s.log != nil {
							s.log.Warn("scan symbol failed",
								applogger.String("symbol", symbol),
								applogger.Error(err),
							)
						}
					}
					continue
				}
				s.metrics.RecordScan("ok")
				results <- opp
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	kept := make([]*models.Opportunity, 0, len(symbols))
	for opp := range results {
		if opp.Scores.Overall >= minScore {
			kept = append(kept, opp)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Scores.Overall > kept[j].Scores.Overall
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	if err := s.persist(ctx, kept); err != nil {
		return nil, err
	}

	if s.log != nil {
		s.log.Info("universe scan complete",
			applogger.Int("symbols", len(symbols)),
			applogger.Int("kept", len(kept)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	s.metrics.RecordLatency("scan_universe", time.Since(start).Seconds())
	return kept, nil
}

func (s *ScanService) persist(ctx context.Context, opps []*models.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	if err := s.store.SaveBatch(ctx, opps); err != nil {
		s.metrics.RecordError("store_opportunities")
		return fmt.Errorf("store opportunities: %w", err)
	}

	for _, opp := range opps {
		s.metrics.RecordOpportunity(string(opp.Status))
		if opp.Status != models.GuardrailApproved || s.pub == nil {
			continue
		}
		if err := s.pub.PublishOpportunity(ctx, opp); err != nil {
			// Persistence already succeeded; publishing is best effort.
			s.metrics.RecordError("publish_opportunity")
			if s.log != nil {
				s.log.Warn("publish opportunity failed",
					applogger.String("symbol", opp.Symbol),
					applogger.Error(err),
				)
			}
		}
	}
	return nil
}

// GetOpportunity fetches a persisted opportunity by id.
func (s *ScanService) GetOpportunity(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	return s.store.GetByID(ctx, id)
}

// ListOpportunities lists persisted opportunities matching the filter.
func (s *ScanService) ListOpportunities(ctx context.Context, filter drepo.OpportunityFilter) ([]*models.Opportunity, int64, error) {
	return s.store.List(ctx, filter)
}
