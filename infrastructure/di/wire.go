//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"mappamentis/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideDynamoDBAPI,
	ProvideMindMapRepository,
	ProvideTimerRepository,
	ProvideMetrics,
	ProvideTracer,
	ProvideEventBus,
	ProvideEventPublisher,
	ProvideCache,
	ProvideMindMapService,
	ProvidePomodoroService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideJWTValidator,
	ProvideReadinessCheck,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
