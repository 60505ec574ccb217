package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"mappamentis/application/ports"
	pkgerrors "mappamentis/pkg/errors"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// Middleware wraps a query handler
type Middleware func(next QueryHandler) QueryHandler

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a new query bus; middlewares wrap every handler in the given order
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query))
	}

	return handler.Handle(ctx, query)
}

// AskAs dispatches a query and asserts the result type
func AskAs[T any](ctx context.Context, b *QueryBus, query Query) (T, error) {
	var zero T
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, pkgerrors.NewInternalError(fmt.Sprintf("unexpected result type %T for %T", result, query))
	}
	return typed, nil
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// HandlerFor adapts a function taking a concrete query type
func HandlerFor[Q Query, R any](fn func(ctx context.Context, query Q) (R, error)) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected query type %T", query))
		}
		return fn(ctx, typed)
	})
}

// Cache stores query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	// Generation advances whenever the cache is cleared
	Generation() uint64
	// SetIfGeneration stores value only if the generation still equals gen
	SetIfGeneration(ctx context.Context, key string, value interface{}, ttl time.Duration, gen uint64) bool
}

// Volatile marks queries whose results depend on the current time and are never cached
type Volatile interface {
	Volatile()
}

// CachingMiddleware serves repeated queries from cache.
// A result is not cached when the cache was cleared while the query ran.
func CachingMiddleware(cache Cache, ttl time.Duration) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			if _, ok := query.(Volatile); ok {
				return next.Handle(ctx, query)
			}

			cacheKey := generateCacheKey(query)
			gen := cache.Generation()

			if cached, found := cache.Get(ctx, cacheKey); found {
				return cached, nil
			}

			result, err := next.Handle(ctx, query)
			if err != nil {
				return nil, err
			}

			cache.SetIfGeneration(ctx, cacheKey, result, ttl, gen)

			return result, nil
		})
	}
}

func generateCacheKey(query Query) string {
	return fmt.Sprintf("%T:%+v", query, query)
}

// MetricsMiddleware records latency and outcome of each query
func MetricsMiddleware(metrics ports.Metrics) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			start := time.Now()
			result, err := next.Handle(ctx, query)
			metrics.RecordCommandExecution(ctx, reflect.TypeOf(query).Name(), time.Since(start), err)
			return result, err
		})
	}
}
