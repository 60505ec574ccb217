// Package dynamodb stores mind maps and pomodoro timers in a single DynamoDB table.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	pkgerrors "mappamentis/pkg/errors"
)

// API is the subset of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// BreakerConfig tunes the circuit breaker wrapped around the client
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used in production
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "dynamodb",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerClient guards an API with a circuit breaker.
// Conflicts count as successes so contention never opens the circuit.
type BreakerClient struct {
	next API
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps next with a circuit breaker
func NewBreakerClient(next API, cfg BreakerConfig, logger *zap.Logger) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isConditionFailure(err)
		},
	})
	return &BreakerClient{next: next, cb: cb}
}

// GetItem implements API
func (c *BreakerClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return execute(c.cb, func() (*dynamodb.GetItemOutput, error) {
		return c.next.GetItem(ctx, params, optFns...)
	})
}

// Query implements API
func (c *BreakerClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return execute(c.cb, func() (*dynamodb.QueryOutput, error) {
		return c.next.Query(ctx, params, optFns...)
	})
}

// TransactWriteItems implements API
func (c *BreakerClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return execute(c.cb, func() (*dynamodb.TransactWriteItemsOutput, error) {
		return c.next.TransactWriteItems(ctx, params, optFns...)
	})
}

// State reports the breaker state
func (c *BreakerClient) State() gobreaker.State {
	return c.cb.State()
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// isConditionFailure reports whether err is an optimistic locking failure
func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}

	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

// translateError maps a client failure onto an application error
func translateError(logger *zap.Logger, operation, kind string, err error) error {
	if err == nil || pkgerrors.IsAppError(err) {
		return err
	}

	if isConditionFailure(err) {
		return pkgerrors.NewConflictError(fmt.Sprintf("%s was modified concurrently", kind)).
			WithCause(err)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logger.Warn("DynamoDB call rejected by circuit breaker",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError(operation, err).WithCode("CIRCUIT_OPEN")
	}

	fields := []zap.Field{zap.String("operation", operation), zap.Error(err)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields,
			zap.String("error_code", apiErr.ErrorCode()),
			zap.String("fault", apiErr.ErrorFault().String()),
		)
	}
	logger.Error("DynamoDB operation failed", fields...)

	return pkgerrors.NewDatabaseError(operation, err)
}
