package memory

import (
	"context"

	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/domain/events"
)

// Business metric names
const (
	MetricMindMapsCreated   = "MindMapsCreated"
	MetricNodesAdded        = "NodesAdded"
	MetricIdeasCaptured     = "IdeasCaptured"
	MetricPomodorosStarted  = "PomodorosStarted"
	MetricPomodorosFinished = "PomodorosCompleted"
)

// MetricsSubscriber turns domain events into business metrics
func MetricsSubscriber(metrics ports.Metrics) ports.EventHandler {
	return ports.EventHandlerFunc(func(ctx context.Context, event events.DomainEvent) error {
		switch e := event.(type) {
		case events.MindMapCreated:
			metrics.RecordBusinessMetric(ctx, MetricMindMapsCreated, 1, nil)
		case events.NodeAdded:
			metrics.RecordBusinessMetric(ctx, MetricNodesAdded, 1, nil)
		case events.IdeaCaptured:
			metrics.RecordBusinessMetric(ctx, MetricIdeasCaptured, 1, map[string]string{"Category": e.Category})
		case events.TimerStarted:
			metrics.RecordBusinessMetric(ctx, MetricPomodorosStarted, 1, nil)
		case events.WorkSessionCompleted:
			metrics.RecordBusinessMetric(ctx, MetricPomodorosFinished, 1, nil)
		}
		return nil
	})
}

// LoggingSubscriber writes every event to the log at debug level
func LoggingSubscriber(logger *zap.Logger) ports.EventHandler {
	return ports.EventHandlerFunc(func(_ context.Context, event events.DomainEvent) error {
		logger.Debug("Domain event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Int("version", event.GetVersion()),
			zap.Time("timestamp", event.GetTimestamp()),
		)
		return nil
	})
}
