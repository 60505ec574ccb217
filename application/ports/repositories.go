package ports

import (
	"context"
	"time"

	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
)

// MindMapRepository defines the interface for mind map persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type MindMapRepository interface {
	// Load retrieves a map by its ID; a missing map is a NotFound error
	Load(ctx context.Context, id valueobjects.MapID) (*aggregates.MindMap, error)

	// LoadAll retrieves every stored map
	LoadAll(ctx context.Context) ([]*aggregates.MindMap, error)

	// Save stages a map in the unit of work carried by ctx (create or update)
	Save(ctx context.Context, mindMap *aggregates.MindMap) error

	// Delete stages removal of a map in the unit of work carried by ctx; deleting a missing map succeeds
	Delete(ctx context.Context, id valueobjects.MapID) error

	// Exists checks whether a map is stored
	Exists(ctx context.Context, id valueobjects.MapID) (bool, error)

	// Commit flushes the writes this repository staged in the unit of work carried by ctx
	Commit(ctx context.Context) error
}

// TimerRepository defines the interface for pomodoro timer persistence
type TimerRepository interface {
	// Load retrieves a timer by its ID; a missing timer is a NotFound error
	Load(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error)

	// LoadByMap retrieves every timer attached to a map
	LoadByMap(ctx context.Context, mapID valueobjects.MapID) ([]*aggregates.PomodoroTimer, error)

	// Save stages a timer in the unit of work carried by ctx
	Save(ctx context.Context, timer *aggregates.PomodoroTimer) error

	// Delete stages removal of a timer in the unit of work carried by ctx; deleting a missing timer succeeds
	Delete(ctx context.Context, id valueobjects.TimerID) error

	// Commit flushes the writes this repository staged in the unit of work carried by ctx
	Commit(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus delivers published events to in-process subscribers
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for one event type
	Subscribe(eventType string, handler EventHandler)

	// SubscribeAll registers a handler for every event
	SubscribeAll(handler EventHandler)
}

// EventHandler processes a delivered event
type EventHandler interface {
	Handle(ctx context.Context, event events.DomainEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface
type EventHandlerFunc func(ctx context.Context, event events.DomainEvent) error

// Handle calls f(ctx, event)
func (f EventHandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return f(ctx, event)
}

// Metrics records operational metrics
type Metrics interface {
	// RecordCommandExecution records the latency and outcome of a command
	RecordCommandExecution(ctx context.Context, commandName string, duration time.Duration, err error)

	// RecordBusinessMetric records a domain counter with optional dimensions
	RecordBusinessMetric(ctx context.Context, metricName string, value float64, dimensions map[string]string)
}
