package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"mappamentis/application/ports"
	pkgerrors "mappamentis/pkg/errors"
)

// Command represents a command that changes state
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandBus dispatches commands to their handlers
type CommandBus struct {
	handlers map[reflect.Type]CommandHandler
	pipeline *Pipeline
	mu       sync.RWMutex
}

// NewCommandBus creates a new command bus; middlewares wrap every handler in the given order
func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{
		handlers: make(map[reflect.Type]CommandHandler),
		pipeline: NewPipeline(middlewares...),
	}
}

// Register registers a handler for a command type
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	b.handlers[t] = b.pipeline.Execute(handler)
	return nil
}

// Send dispatches a command to its handler
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for command type %T", cmd)).
			WithCause(ErrHandlerNotFound)
	}

	return handler.Handle(ctx, cmd)
}

// Middleware defines command middleware
type Middleware func(next CommandHandler) CommandHandler

// CommandHandlerFunc is an adapter to allow functions to be used as handlers
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// HandlerFor adapts a function taking a concrete command type
func HandlerFor[C Command](fn func(ctx context.Context, cmd C) error) CommandHandler {
	return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(C)
		if !ok {
			return pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
		}
		return fn(ctx, typed)
	})
}

// CommandName returns the type name used in logs and metrics
func CommandName(cmd Command) string {
	t := reflect.TypeOf(cmd)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// LoggingMiddleware logs command execution
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			cmdType := CommandName(cmd)
			logger.Debug("Executing command", zap.String("type", cmdType))

			err := next.Handle(ctx, cmd)
			if err != nil {
				logger.Warn("Command failed", zap.String("type", cmdType), zap.Error(err))
			} else {
				logger.Info("Command succeeded", zap.String("type", cmdType))
			}

			return err
		})
	}
}

// MetricsMiddleware records latency and outcome of each command
func MetricsMiddleware(metrics ports.Metrics) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			start := time.Now()
			err := next.Handle(ctx, cmd)
			metrics.RecordCommandExecution(ctx, CommandName(cmd), time.Since(start), err)
			return err
		})
	}
}

// Tracer runs a function inside a named trace span
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
}

// TracingMiddleware wraps each command in a subsegment named after the command
func TracingMiddleware(tracer Tracer) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			return tracer.TraceFunction(ctx, "command."+CommandName(cmd), func(ctx context.Context) error {
				return next.Handle(ctx, cmd)
			})
		})
	}
}

// Invalidator drops cached read models
type Invalidator interface {
	Clear(ctx context.Context) error
}

// InvalidationMiddleware clears cached read models after every successful command
func InvalidationMiddleware(cache Invalidator, logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			if err := next.Handle(ctx, cmd); err != nil {
				return err
			}
			if err := cache.Clear(ctx); err != nil {
				logger.Warn("Failed to invalidate query cache", zap.Error(err))
			}
			return nil
		})
	}
}

// Pipeline chains multiple middleware together
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a new middleware pipeline
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{
		middlewares: middlewares,
	}
}

// Execute wraps a handler so the first middleware runs outermost
func (p *Pipeline) Execute(handler CommandHandler) CommandHandler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}

// Errors
var (
	ErrHandlerNotFound  = errors.New("command handler not found")
	ErrValidationFailed = errors.New("command validation failed")
)
