package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mappamentis/application/commands/bus"
	commandhandlers "mappamentis/application/commands/handlers"
	"mappamentis/application/ports"
	querybus "mappamentis/application/queries/bus"
	queryhandlers "mappamentis/application/queries/handlers"
	"mappamentis/application/services"
	domainconfig "mappamentis/domain/config"
	"mappamentis/infrastructure/cache"
	"mappamentis/infrastructure/config"
	"mappamentis/infrastructure/messaging/eventbridge"
	"mappamentis/infrastructure/messaging/memory"
	"mappamentis/infrastructure/persistence/dynamodb"
	persistence "mappamentis/infrastructure/persistence/memory"
	"mappamentis/interfaces/http/rest"
	"mappamentis/pkg/auth"
	pkgerrors "mappamentis/pkg/errors"
	"mappamentis/pkg/observability"
)

// cacheSweepInterval is how often expired query results are dropped
const cacheSweepInterval = time.Minute

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideDomainConfig selects domain defaults for the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideDynamoDBAPI guards the DynamoDB client with a circuit breaker
func ProvideDynamoDBAPI(client *awsdynamodb.Client, logger *zap.Logger) *dynamodb.BreakerClient {
	return dynamodb.NewBreakerClient(client, dynamodb.DefaultBreakerConfig(), logger)
}

// ProvideMindMapRepository creates the mind map repository for the configured backend
func ProvideMindMapRepository(cfg *config.Config, api *dynamodb.BreakerClient, logger *zap.Logger) ports.MindMapRepository {
	if cfg.StorageBackend == config.StorageDynamoDB {
		return dynamodb.NewMindMapRepository(api, cfg.DynamoDBTable, logger)
	}
	return persistence.NewMindMapRepository()
}

// ProvideTimerRepository creates the timer repository for the configured backend
func ProvideTimerRepository(cfg *config.Config, api *dynamodb.BreakerClient, logger *zap.Logger) ports.TimerRepository {
	if cfg.StorageBackend == config.StorageDynamoDB {
		return dynamodb.NewTimerRepository(api, cfg.DynamoDBTable, logger)
	}
	return persistence.NewTimerRepository()
}

// ProvideMetrics creates the metrics sink; disabled metrics are dropped
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) ports.Metrics {
	if !cfg.EnableMetrics {
		return observability.NoopMetrics{}
	}
	namespace := fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("mappamentis", cfg.EnableTracing)
}

// ProvideEventBus creates the in-process event bus.
// Events are forwarded to EventBridge when running against AWS storage.
func ProvideEventBus(cfg *config.Config, client *awseventbridge.Client, metrics ports.Metrics, logger *zap.Logger) *memory.EventBus {
	var forward ports.EventPublisher
	if cfg.StorageBackend == config.StorageDynamoDB && cfg.EventBusName != "" {
		forward = eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}

	eventBus := memory.NewEventBus(forward, logger)
	eventBus.SubscribeAll(memory.LoggingSubscriber(logger))
	eventBus.SubscribeAll(memory.MetricsSubscriber(metrics))
	return eventBus
}

// ProvideEventPublisher exposes the event bus as the services' publisher
func ProvideEventPublisher(eventBus *memory.EventBus) ports.EventPublisher {
	return eventBus
}

// ProvideCache creates the query cache
func ProvideCache() *cache.InMemoryCache {
	return cache.NewInMemoryCache(cacheSweepInterval)
}

// ProvideMindMapService creates the mind map service
func ProvideMindMapService(
	maps ports.MindMapRepository,
	timers ports.TimerRepository,
	publisher ports.EventPublisher,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.MindMapService {
	return services.NewMindMapService(maps, timers, publisher, domainCfg, logger)
}

// ProvidePomodoroService creates the pomodoro service
func ProvidePomodoroService(
	timers ports.TimerRepository,
	maps ports.MindMapRepository,
	publisher ports.EventPublisher,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.PomodoroService {
	return services.NewPomodoroService(timers, maps, publisher, domainCfg, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	cfg *config.Config,
	mapService *services.MindMapService,
	timerService *services.PomodoroService,
	domainCfg *domainconfig.DomainConfig,
	queryCache *cache.InMemoryCache,
	metrics ports.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	middlewares := []bus.Middleware{
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
		bus.TracingMiddleware(tracer),
	}
	if cfg.CacheTTL > 0 {
		middlewares = append(middlewares, bus.InvalidationMiddleware(queryCache, logger))
	}

	commandBus := bus.NewCommandBus(middlewares...)

	if err := commandhandlers.NewMindMapCommandHandler(mapService, domainCfg, logger).Register(commandBus); err != nil {
		return nil, err
	}
	if err := commandhandlers.NewTimerCommandHandler(timerService, logger).Register(commandBus); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	cfg *config.Config,
	mapService *services.MindMapService,
	timerService *services.PomodoroService,
	queryCache *cache.InMemoryCache,
	metrics ports.Metrics,
) (*querybus.QueryBus, error) {
	middlewares := []querybus.Middleware{querybus.MetricsMiddleware(metrics)}
	if cfg.CacheTTL > 0 {
		middlewares = append(middlewares, querybus.CachingMiddleware(queryCache, cfg.CacheTTL))
	}

	queryBus := querybus.NewQueryBus(middlewares...)
	if err := queryhandlers.NewQueryHandler(mapService, timerService).Register(queryBus); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideJWTValidator creates the token validator; nil when authentication is disabled
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.EnableAuth {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Leeway:    30 * time.Second,
	})
}

// ProvideReadinessCheck reports not ready while the DynamoDB breaker is open
func ProvideReadinessCheck(cfg *config.Config, api *dynamodb.BreakerClient) rest.ReadinessCheck {
	return func(context.Context) error {
		if cfg.StorageBackend == config.StorageDynamoDB && api.State() == gobreaker.StateOpen {
			return fmt.Errorf("dynamodb circuit breaker is open")
		}
		return nil
	}
}

// ProvideRouter builds the HTTP handler
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	validator *auth.JWTValidator,
	tracer *observability.Tracer,
	ready rest.ReadinessCheck,
	logger *zap.Logger,
) http.Handler {
	router := rest.NewRouter(commandBus, queryBus, logger, rest.RouterOptions{
		Validator:          validator,
		Tracer:             tracer,
		ErrorHandler:       errs,
		Ready:              ready,
		EnableCORS:         cfg.EnableCORS,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Debug:              cfg.IsDevelopment(),
	})
	return router.Setup()
}
