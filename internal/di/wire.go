//go:build wireinject
// +build wireinject

package di

import (
	"github.com/david89it/trading-opportunities-platform/pkg/config"
	"github.com/david89it/trading-opportunities-platform/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Providers and repositories
		ProvideMarketData,
		ProvideMarketStream,
		ProvideOpportunityStore,
		ProvideTrackingStore,
		ProvidePublisher,

		// Use cases
		ProvideScannerConfig,
		ProvideCalibrator,
		ProvideScanService,
		ProvideTrackingService,
		ProvideQuoteCollector,

		// HTTP surface and application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
