//go:build wireinject
// +build wireinject

package di

import (
	"github.com/umi1970/TradeMatrix-sub001/pkg/config"
	"github.com/umi1970/TradeMatrix-sub001/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics and logging
		ProvideMetrics,
		ProvideLogger,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideBytesCache,

		// Repositories (with business logic)
		ProvideBarStore,
		ProvideDecisionStore,
		ProvideAlertPublisher,
		ProvideLevelsCache,
		ProvideMarketStream,
		ProvideBarHistory,

		// Domain engines
		ProvideIndicatorEngine,
		ProvideLevelsCalculator,
		ProvideSignalValidator,
		ProvideRiskEvaluator,
		ProvidePositionCalculator,
		ProvideDecisionMaker,
		ProvideAlertDetector,

		// Use cases
		ProvideLevelsUseCase,
		ProvideEvaluationPipeline,
		ProvideAlertScanner,
		ProvideBarProcessor,
		ProvideBarCollector,
		ProvideKafkaBarsHandler,
		ProvideDecisionStatsUseCase,
		ProvideBarsUseCase,

		// Scan job queue
		ProvideRedisClient,
		ProvideScanJob,
		ProvideScanQueue,

		// HTTP
		ProvideOpsHandler,
		ProvideEchoHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
