// Package eventbridge exports domain events to an AWS EventBridge bus.
package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/domain/events"
	pkgerrors "mappamentis/pkg/errors"
)

// Source is the EventBridge source of every exported event
const Source = "mappamentis.core"

// EventBridge accepts at most 10 entries per PutEvents call
const batchSize = 10

// PutEventsAPI is the subset of the EventBridge client the publisher needs
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher on top of EventBridge
type Publisher struct {
	client       PutEventsAPI
	eventBusName string
	maxRetries   int
	backoff      time.Duration
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client PutEventsAPI, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		maxRetries:   3,
		backoff:      100 * time.Millisecond,
		logger:       logger,
	}
}

// Publish sends a single event to EventBridge
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends events to EventBridge in chunks of batchSize
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for i := 0; i < len(domainEvents); i += batchSize {
		end := min(i+batchSize, len(domainEvents))
		if err := p.publishWithRetry(ctx, domainEvents[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publishWithRetry(ctx context.Context, batch []events.DomainEvent) error {
	backoff := p.backoff
	var err error

	for attempt := 0; attempt < p.maxRetries; attempt++ {
		err = p.publishBatch(ctx, batch)
		if err == nil {
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return pkgerrors.NewExternalError("eventbridge", permanent.err)
		}

		if attempt < p.maxRetries-1 {
			p.logger.Warn("Retrying event publication",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
				zap.Duration("backoff", backoff),
			)

			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return pkgerrors.NewExternalError("eventbridge", fmt.Errorf("failed after %d attempts: %w", p.maxRetries, err))
}

// publishBatch publishes at most batchSize events
func (p *Publisher) publishBatch(ctx context.Context, batch []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))

	for _, event := range batch {
		detail, err := json.Marshal(event)
		if err != nil {
			return &permanentError{err: fmt.Errorf("marshal %s: %w", event.GetEventType(), err)}
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
			Resources:    []string{"mappamentis:" + event.GetAggregateID()},
		})
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil && i < len(batch) {
				p.logger.Error("Failed to publish event",
					zap.String("eventType", batch[i].GetEventType()),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)

	return nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

var _ ports.EventPublisher = (*Publisher)(nil)
