package di

import (
	"net/http"

	"go.uber.org/zap"

	"mappamentis/application/commands/bus"
	querybus "mappamentis/application/queries/bus"
	"mappamentis/infrastructure/cache"
	"mappamentis/infrastructure/config"
	"mappamentis/infrastructure/messaging/memory"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	EventBus   *memory.EventBus
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Cache      *cache.InMemoryCache
	Handler    http.Handler
}

// Close releases background resources and flushes the logger
func (c *Container) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
