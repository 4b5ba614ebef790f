package di

import (
	"context"
	"fmt"
	"time"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	domsvc "github.com/umi1970/TradeMatrix-sub001/internal/domain/service"
	"github.com/umi1970/TradeMatrix-sub001/internal/handler/api"
	mid "github.com/umi1970/TradeMatrix-sub001/internal/middleware"
	internalrepo "github.com/umi1970/TradeMatrix-sub001/internal/repository"
	icache "github.com/umi1970/TradeMatrix-sub001/internal/service/cache"
	"github.com/umi1970/TradeMatrix-sub001/internal/service/marketdata"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/alert"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/decision"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/indicator"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/levels"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/risk"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/validation"
	"github.com/umi1970/TradeMatrix-sub001/internal/usecase"
	pkgch "github.com/umi1970/TradeMatrix-sub001/pkg/clickhouse"
	"github.com/umi1970/TradeMatrix-sub001/pkg/config"
	pkgkafka "github.com/umi1970/TradeMatrix-sub001/pkg/kafka"
	applogger "github.com/umi1970/TradeMatrix-sub001/pkg/logger"
	"github.com/umi1970/TradeMatrix-sub001/pkg/metrics"
	"github.com/umi1970/TradeMatrix-sub001/pkg/queue"
	"github.com/umi1970/TradeMatrix-sub001/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideClickHouseClient creates a ClickHouse client.
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

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLogger creates the application logger.
func ProvideLogger() (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
}

// ProvideBarStore creates the ClickHouse bar store.
func ProvideBarStore(chClient *pkgch.Client) repository.BarStore {
	return internalrepo.NewCHBarStore(chClient)
}

// ProvideDecisionStore creates the ClickHouse decision store.
func ProvideDecisionStore(chClient *pkgch.Client, cfg *config.Config) repository.DecisionStore {
	return internalrepo.NewCHDecisionStore(chClient.DB(), cfg.ClickHouse.DecisionsTable)
}

// ProvideAlertPublisher creates the Kafka alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideBytesCache selects Redis or in-memory TTL caching.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideLevelsCache creates the levels/setup cache.
func ProvideLevelsCache(bc icache.BytesCache) repository.LevelsCache {
	return internalrepo.NewCachedLevels(bc)
}

// ProvideIndicatorEngine creates the indicator engine from config.
func ProvideIndicatorEngine(cfg *config.Config) *indicator.Engine {
	return indicator.NewEngine(indicator.Config{
		SMAPeriod:  cfg.Indicators.SMAPeriod,
		EMAShort:   cfg.Indicators.EMAShort,
		EMAMedium:  cfg.Indicators.EMAMedium,
		EMALong:    cfg.Indicators.EMALong,
		RSIPeriod:  cfg.Indicators.RSIPeriod,
		ATRPeriod:  cfg.Indicators.ATRPeriod,
		MACDFast:   cfg.Indicators.MACDFast,
		MACDSlow:   cfg.Indicators.MACDSlow,
		MACDSignal: cfg.Indicators.MACDSignal,
		BBPeriod:   cfg.Indicators.BBPeriod,
		BBStdDev:   cfg.Indicators.BBStdDev,
	})
}

// ProvideLevelsCalculator creates the daily levels calculator.
func ProvideLevelsCalculator() *levels.Calculator {
	return levels.NewCalculator()
}

// ProvideSignalValidator creates the validation engine from config.
func ProvideSignalValidator(cfg *config.Config) domsvc.SignalValidator {
	return validation.NewEngine(validation.Config{
		Threshold:          cfg.Validation.Threshold,
		PriorityStrategies: cfg.Validation.PriorityStrategies,
		PivotTolerancePct:  cfg.Validation.PivotTolerancePct,
		PivotRangePct:      cfg.Validation.PivotRangePct,
		ExtremeVolPct:      cfg.Validation.ExtremeVolPct,
		EntryBoost:         cfg.Validation.EntryBoost,
	})
}

// ProvideRiskEvaluator creates the account risk evaluator from config.
func ProvideRiskEvaluator(cfg *config.Config) domsvc.RiskEvaluator {
	return risk.NewContextEvaluator(risk.ContextConfig{
		MaxDailyLossPct: cfg.Risk.MaxDailyLossPct,
		MaxOpenTrades:   cfg.Risk.MaxOpenTrades,
	})
}

// ProvidePositionCalculator creates the position sizer from config.
func ProvidePositionCalculator(cfg *config.Config) *risk.PositionCalculator {
	return risk.NewPositionCalculator(risk.PositionConfig{
		RiskPerTradeFraction: cfg.Risk.RiskPerTradeFraction,
		RewardRatioFloor:     cfg.Risk.RewardRatioFloor,
		LeverageCeiling:      cfg.Risk.LeverageCeiling,
		KOSafetyBufferPct:    cfg.Risk.KOSafetyBufferPct,
	})
}

// ProvideDecisionMaker creates the decision engine.
func ProvideDecisionMaker() domsvc.DecisionMaker {
	return decision.NewEngine(nil)
}

// ProvideAlertDetector creates the alert rule engine from config.
func ProvideAlertDetector(cfg *config.Config) domsvc.AlertDetector {
	return alert.NewEngine(alert.Config{
		RetestTolerancePct: cfg.Alerts.RetestTolerancePct,
		PivotTolerancePct:  cfg.Alerts.PivotTolerancePct,
		SweepConfirmCloses: cfg.Alerts.SweepConfirmCloses,
	})
}

// ProvideMarketStream creates the WebSocket bar stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return marketdata.New(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		cfg.MarketData.Symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
	)
}

// ProvideBarHistory creates the REST candle fallback, or nil when no REST
// endpoint is configured.
func ProvideBarHistory(cfg *config.Config) repository.BarHistory {
	if cfg.MarketData.RestURL == "" {
		return nil
	}
	return marketdata.NewHistory(cfg.MarketData.APIKey, cfg.MarketData.RestURL, cfg.MarketData.RestTimeout)
}

// ProvideLevelsUseCase creates the levels resolver use case.
func ProvideLevelsUseCase(
	bars repository.BarStore,
	cache repository.LevelsCache,
	calc *levels.Calculator,
	m repository.Metrics,
	hist repository.BarHistory,
) *usecase.LevelsUseCase {
	uc := usecase.NewLevelsUseCase(bars, cache, calc, m)
	if hist != nil {
		uc.SetHistory(hist)
	}
	return uc
}

// ProvideEvaluationPipeline wires the full decision chain.
func ProvideEvaluationPipeline(
	bars repository.BarStore,
	lvl *usecase.LevelsUseCase,
	store repository.DecisionStore,
	m repository.Metrics,
	engine *indicator.Engine,
	validator domsvc.SignalValidator,
	riskEval domsvc.RiskEvaluator,
	decider domsvc.DecisionMaker,
	sizer *risk.PositionCalculator,
) *usecase.EvaluationPipeline {
	return usecase.NewEvaluationPipeline(bars, lvl, store, m, engine, validator, riskEval, decider, sizer)
}

// ProvideAlertScanner creates the per-bar alert scanner.
func ProvideAlertScanner(
	bars repository.BarStore,
	cache repository.LevelsCache,
	m repository.Metrics,
	detector domsvc.AlertDetector,
	calc *levels.Calculator,
	cfg *config.Config,
) *usecase.AlertScanner {
	return usecase.NewAlertScanner(bars, cache, m, detector, calc, cfg.Alerts.SweepConfirmCloses)
}

// ProvideBarProcessor creates the scan processor.
func ProvideBarProcessor(scanner *usecase.AlertScanner, pub repository.AlertPublisher, m repository.Metrics) *usecase.BarProcessor {
	return usecase.NewBarProcessor(scanner, pub, m)
}

// ProvideBarCollector creates the bar collector with the scan pipeline.
func ProvideBarCollector(
	stream repository.MarketStream,
	processor *usecase.BarProcessor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.BarCollector {
	// Build middleware pipeline between WebSocket and the alert rules
	opts := []mid.PipelineOption{}
	if cfg.Pipeline.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Pipeline.MaxRPS))
	}
	if cfg.Pipeline.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Pipeline.BufferSize))
	}
	pipe := mid.NewScanPipeline(processor, m, opts...)
	return usecase.NewBarCollector(stream, processor, m, pipe)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaBarsHandler registers the handler for the bars topic.
func ProvideKafkaBarsHandler(proc *usecase.BarProcessor, m repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.BarsTopic, proc, m)
}

// ProvideRedisClient creates a Redis client for the job queue, or nil when
// Redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideScanJob creates the queued alert scan job.
func ProvideScanJob(scanner *usecase.AlertScanner, pub repository.AlertPublisher, m repository.Metrics) *usecase.ScanJob {
	return usecase.NewScanJob(scanner, pub, m)
}

// ProvideScanQueue creates the Redis-backed scan queue consumer, or nil when
// Redis or the queue is disabled.
func ProvideScanQueue(cfg *config.Config, l *applogger.Logger, client *redis.Client, job *usecase.ScanJob) *queue.RedisQueue {
	if client == nil || !cfg.Queue.Enabled {
		return nil
	}
	return queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, client, []queue.Job{job})
}

// ProvideDecisionStatsUseCase creates the stats use case.
func ProvideDecisionStatsUseCase(store repository.DecisionStore) *usecase.DecisionStatsUseCase {
	return usecase.NewDecisionStatsUseCase(store)
}

// ProvideBarsUseCase creates the bars use case.
func ProvideBarsUseCase(bars repository.BarStore) *usecase.BarsUseCase {
	return usecase.NewBarsUseCase(bars)
}

// ProvideOpsHandler creates the plain-http read-side handler with response
// caching and per-remote rate limiting.
func ProvideOpsHandler(
	stats *usecase.DecisionStatsUseCase,
	lvl *usecase.LevelsUseCase,
	scanner *usecase.AlertScanner,
	bc icache.BytesCache,
	l *applogger.Logger,
) *api.DecisionHandler {
	h := api.NewDecisionHandler(stats, lvl, scanner)
	h.SetCache(bc)
	h.SetLogger(l)
	return h
}

// ProvideEchoHandler creates the Echo HTTP handler with all routes.
func ProvideEchoHandler(
	l *applogger.Logger,
	pipeline *usecase.EvaluationPipeline,
	stats *usecase.DecisionStatsUseCase,
	lvl *usecase.LevelsUseCase,
	scanner *usecase.AlertScanner,
	bars *usecase.BarsUseCase,
	sizer *risk.PositionCalculator,
	ops *api.DecisionHandler,
) *api.DecisionEchoHandler {
	return api.NewDecisionEchoHandler(l, pipeline, stats, lvl, scanner, bars, sizer, ops)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	eh *api.DecisionEchoHandler,
	scanQueue *queue.RedisQueue,
) *server.App {
	// Attach hook to consumer: example NoopHook for now; can be replaced via config
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(eh)
	app.SetScanQueue(scanQueue)
	// attach scan processor to app for closing resources via collector
	if collector != nil {
		app.BarProc = collector.Processor()
	}
	return app
}
