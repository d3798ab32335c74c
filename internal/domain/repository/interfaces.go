package repository

import (
	"context"
	"errors"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// OpportunityFilter narrows opportunity listings.
type OpportunityFilter struct {
	Symbol   string
	Status   models.GuardrailStatus
	MinScore float64
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// OpportunityStore persists computed opportunities.
type OpportunityStore interface {
	Save(ctx context.Context, opp *models.Opportunity) error
	SaveBatch(ctx context.Context, opps []*models.Opportunity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	List(ctx context.Context, filter OpportunityFilter) ([]*models.Opportunity, int64, error)
}

// SignalFilter narrows signal-history listings.
type SignalFilter struct {
	Symbol string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TrackingStore persists signal history and the trade journal.
type TrackingStore interface {
	SaveSignal(ctx context.Context, sig *models.SignalHistory) error
	UpdateSignalOutcome(ctx context.Context, id uuid.UUID, outcome models.SignalOutcome, outcomeTime time.Time, mfe, mae, actualR float64) error
	ListSignals(ctx context.Context, filter SignalFilter) ([]*models.SignalHistory, int64, error)
	GetSignalStats(ctx context.Context, symbol string) (*models.SignalStats, error)
	SaveTrade(ctx context.Context, trade *models.TradeEntry) error
	ListTrades(ctx context.Context, symbol string, limit, offset int) ([]*models.TradeEntry, int64, error)
}

// Publisher emits approved opportunities to downstream consumers.
type Publisher interface {
	PublishOpportunity(ctx context.Context, opp *models.Opportunity) error
	Close() error
}

// MarketStream is a live quote feed used to keep snapshots fresh between
// REST polls.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records operational counters for the scan and simulation paths.
type Metrics interface {
	RecordScan(result string)
	RecordOpportunity(status string)
	RecordError(kind string)
	RecordLastScore(symbol string, score float64)
	RecordLatency(op string, seconds float64)
	RecordSimulation(paths int)
}
