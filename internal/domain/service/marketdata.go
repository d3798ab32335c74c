package service

import (
	"context"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
)

// MarketData supplies historical bars and current snapshots. Bars are
// returned oldest first.
type MarketData interface {
	GetBars(ctx context.Context, symbol string, count int) ([]models.Bar, error)
	GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error)
}
