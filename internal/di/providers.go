// Package di assembles the application object graph with google/wire.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/internal/domain/service"
	"github.com/david89it/trading-opportunities-platform/internal/handler/api"
	"github.com/david89it/trading-opportunities-platform/internal/provider/mock"
	"github.com/david89it/trading-opportunities-platform/internal/provider/polygon"
	internalrepo "github.com/david89it/trading-opportunities-platform/internal/repository"
	"github.com/david89it/trading-opportunities-platform/internal/scanner"
	"github.com/david89it/trading-opportunities-platform/internal/usecase"
	"github.com/david89it/trading-opportunities-platform/pkg/cache"
	pkgch "github.com/david89it/trading-opportunities-platform/pkg/clickhouse"
	"github.com/david89it/trading-opportunities-platform/pkg/config"
	xhttp "github.com/david89it/trading-opportunities-platform/pkg/http"
	pkgkafka "github.com/david89it/trading-opportunities-platform/pkg/kafka"
	applogger "github.com/david89it/trading-opportunities-platform/pkg/logger"
	"github.com/david89it/trading-opportunities-platform/pkg/metrics"
	"github.com/david89it/trading-opportunities-platform/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideCache creates the cache backend: Redis when enabled, in-process
// memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Redis.Enabled {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideClickHouseClient creates the ClickHouse client and applies the
// schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates the Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketData selects the market-data provider by config.
func ProvideMarketData(cfg *config.Config, c cache.Service, log *applogger.Logger) service.MarketData {
	if cfg.Scanner.Provider == "mock" {
		return mock.NewProvider()
	}
	return polygon.NewClient(c, log,
		polygon.WithAPIKey(cfg.Polygon.APIKey),
		polygon.WithBaseURL(cfg.Polygon.BaseURL),
		polygon.WithTier(cfg.Polygon.Tier),
		polygon.WithLive(cfg.Polygon.UseLive),
		polygon.WithFixturesDir(cfg.Polygon.FixturesDir),
		polygon.WithCacheTTL(cfg.Polygon.CacheTTL),
	)
}

// ProvideMarketStream creates the live quote stream, or nil when the
// deployment has no live feed.
func ProvideMarketStream(cfg *config.Config, log *applogger.Logger) repository.MarketStream {
	if !cfg.Polygon.UseLive || cfg.Polygon.WebSocketURL == "" {
		return nil
	}
	return polygon.NewStream(
		cfg.Polygon.APIKey,
		cfg.Polygon.WebSocketURL,
		cfg.Scanner.Symbols,
		cfg.Polygon.ReconnectDelay,
		cfg.Polygon.PingInterval,
		log,
	)
}

// ProvideQuoteCollector creates the stream consumer, or nil without a stream.
func ProvideQuoteCollector(stream repository.MarketStream, c cache.Service, m repository.Metrics, log *applogger.Logger) *usecase.QuoteCollector {
	if stream == nil {
		return nil
	}
	return usecase.NewQuoteCollector(stream, c, m, log)
}

// ProvideOpportunityStore creates the ClickHouse opportunity repository.
func ProvideOpportunityStore(ch *pkgch.Client, cfg *config.Config, log *applogger.Logger) repository.OpportunityStore {
	store := internalrepo.NewCHOpportunityStore(ch, cfg.ClickHouse.Database)
	store.SetLogger(log)
	return store
}

// ProvideTrackingStore creates the ClickHouse tracking repository.
func ProvideTrackingStore(ch *pkgch.Client, cfg *config.Config, log *applogger.Logger) repository.TrackingStore {
	store := internalrepo.NewCHTrackingStore(ch, cfg.ClickHouse.Database)
	store.SetLogger(log)
	return store
}

// ProvidePublisher creates the Kafka opportunity publisher, or nil when the
// producer is disabled.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideScannerConfig maps YAML configuration to the scan policy.
func ProvideScannerConfig(cfg *config.Config) scanner.Config {
	return scanner.Config{
		RiskPct:        cfg.Scanner.RiskPctPerTrade,
		MaxHeatPct:     cfg.Scanner.MaxHeatPct,
		PortfolioValue: cfg.Scanner.PortfolioValue,
		MinScore:       cfg.Scanner.MinScore,
		ReviewScore:    cfg.Scanner.ReviewScore,
		FeesUSD:        cfg.Scanner.FeesUSD,
		HistoryBars:    cfg.Scanner.HistoryBars,
	}
}

// ProvideCalibrator returns the score-to-probability calibration curve.
func ProvideCalibrator() scanner.Calibrator {
	return scanner.PiecewiseCalibrator{}
}

// ProvideScanService creates the scan pipeline service.
func ProvideScanService(
	market service.MarketData,
	store repository.OpportunityStore,
	pub repository.Publisher,
	m repository.Metrics,
	cal scanner.Calibrator,
	scanCfg scanner.Config,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.ScanService {
	return usecase.NewScanService(market, store, pub, m, cal, scanCfg, cfg.Scanner.Workers, log)
}

// ProvideTrackingService creates the tracking journal service.
func ProvideTrackingService(store repository.TrackingStore) *usecase.TrackingService {
	return usecase.NewTrackingService(store)
}

// ProvideHTTPHandler composes every route group into one handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	log *applogger.Logger,
	scan *usecase.ScanService,
	tracking *usecase.TrackingService,
	m repository.Metrics,
	ch *pkgch.Client,
) xhttp.Handler {
	checks := map[string]api.HealthCheck{}
	if ch != nil {
		checks["clickhouse"] = ch.Health
	}

	return xhttp.CompositeHandler{
		api.NewOpportunitiesHandler(log, scan, cfg.Scanner.Symbols),
		api.NewRiskHandler(log, m),
		api.NewTrackingHandler(log, tracking, scan),
		api.NewHealthHandler(checks),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	collector *usecase.QuoteCollector,
	ch *pkgch.Client,
	pub repository.Publisher,
) *server.App {
	app := server.New(cfg, log, handler, collector, ch)
	if pub != nil {
		app.AddCloser(pub)
	}
	return app
}
