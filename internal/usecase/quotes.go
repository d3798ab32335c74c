package usecase

import (
	"context"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	drepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/pkg/cache"
	applogger "github.com/david89it/trading-opportunities-platform/pkg/logger"
)

// Quote cache entries expire quickly; a stale quote is worse than none.
const quoteTTL = 30 * time.Second

// QuoteCollector drains the live quote stream into the cache so scans see
// fresher spreads than the REST snapshot alone provides.
type QuoteCollector struct {
	stream  drepo.MarketStream
	cache   cache.Service
	metrics drepo.Metrics
	log     *applogger.Logger
}

// NewQuoteCollector creates a QuoteCollector.
func NewQuoteCollector(stream drepo.MarketStream, c cache.Service, metrics drepo.Metrics, log *applogger.Logger) *QuoteCollector {
	return &QuoteCollector{stream: stream, cache: c, metrics: metrics, log: log}
}

// Start connects, subscribes, and consumes quotes until ctx is cancelled.
// Stream failures trigger reconnects instead of returning.
func (q *QuoteCollector) Start(ctx context.Context) error {
	if err := q.stream.Connect(ctx); err != nil {
		return err
	}
	if err := q.stream.Subscribe(ctx); err != nil {
		return err
	}

	for {
		quotes, errs := q.stream.Read(ctx)

	consume:
		for {
			select {
			case <-ctx.Done():
				return nil
			case quote, ok := <-quotes:
				if !ok {
					break consume
				}
				q.store(ctx, quote)
			case err, ok := <-errs:
				if !ok {
					break consume
				}
				q.metrics.RecordError("stream_read")
				if q.log != nil {
					q.log.Warn("quote stream error", applogger.Error(err))
				}
				break consume
			}
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := q.stream.Reconnect(ctx); err != nil {
			q.metrics.RecordError("stream_reconnect")
			if q.log != nil {
				q.log.Warn("quote stream reconnect failed", applogger.Error(err))
			}
		}
	}
}

func (q *QuoteCollector) store(ctx context.Context, quote *models.Quote) {
	if quote == nil || q.cache == nil {
		return
	}
	key := cache.GenerateKey("quote", quote.Symbol)
	if err := q.cache.Set(ctx, key, quote, quoteTTL); err != nil {
		q.metrics.RecordError("quote_cache")
		if q.log != nil {
			q.log.Warn("quote cache write failed",
				applogger.String("symbol", quote.Symbol),
				applogger.Error(err),
			)
		}
	}
}

// Shutdown closes the underlying stream.
func (q *QuoteCollector) Shutdown() error {
	return q.stream.Close()
}
