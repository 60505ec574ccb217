// Package memory provides an in-process event bus.
package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/domain/events"
)

// EventBus delivers events synchronously to in-process subscribers and
// optionally forwards them to an external publisher
type EventBus struct {
	mu      sync.RWMutex
	byType  map[string][]ports.EventHandler
	all     []ports.EventHandler
	forward ports.EventPublisher
	logger  *zap.Logger
}

// NewEventBus creates a bus; forward may be nil
func NewEventBus(forward ports.EventPublisher, logger *zap.Logger) *EventBus {
	return &EventBus{
		byType:  make(map[string][]ports.EventHandler),
		forward: forward,
		logger:  logger,
	}
}

// Subscribe registers a handler for one event type
func (b *EventBus) Subscribe(eventType string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byType[eventType] = append(b.byType[eventType], handler)
}

// SubscribeAll registers a handler for every event
func (b *EventBus) SubscribeAll(handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish delivers a single event
func (b *EventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch delivers events in order; subscriber failures are logged and
// only the forwarding error is returned
func (b *EventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	for _, event := range evts {
		for _, handler := range b.handlersFor(event.GetEventType()) {
			if err := handler.Handle(ctx, event); err != nil {
				b.logger.Warn("Event handler failed",
					zap.String("eventType", event.GetEventType()),
					zap.String("eventID", event.GetEventID()),
					zap.Error(err),
				)
			}
		}
	}

	if b.forward != nil {
		return b.forward.PublishBatch(ctx, evts)
	}
	return nil
}

func (b *EventBus) handlersFor(eventType string) []ports.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]ports.EventHandler, 0, len(b.byType[eventType])+len(b.all))
	handlers = append(handlers, b.byType[eventType]...)
	handlers = append(handlers, b.all...)
	return handlers
}

var _ ports.EventBus = (*EventBus)(nil)
