package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mappamentis/application/ports/mocks"
	pkgerrors "mappamentis/pkg/errors"
)

type echoQuery struct{ Value string }

func (q echoQuery) Validate() error {
	if q.Value == "" {
		return pkgerrors.NewInvalidArgumentError("value is required")
	}
	return nil
}

type clockQuery struct{}

func (clockQuery) Validate() error { return nil }
func (clockQuery) Volatile()       {}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
	gen   uint64
}

func newMapCache() *mapCache { return &mapCache{items: map[string]interface{}{}} }

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *mapCache) SetIfGeneration(_ context.Context, key string, value interface{}, _ time.Duration, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.items[key] = value
	return true
}

func (c *mapCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]interface{}{}
	c.gen++
}

func TestQueryBus_AskAs(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(func(_ context.Context, q echoQuery) (string, error) {
		return "echo:" + q.Value, nil
	})))

	got, err := AskAs[string](context.Background(), b, echoQuery{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", got)

	_, err = AskAs[int](context.Background(), b, echoQuery{Value: "hi"})
	assert.Error(t, err)

	_, err = b.Ask(context.Background(), echoQuery{})
	assert.True(t, pkgerrors.IsInvalidArgument(err))

	_, err = b.Ask(context.Background(), clockQuery{})
	assert.Error(t, err)
}

func TestCachingMiddleware(t *testing.T) {
	calls := 0
	b := NewQueryBus(CachingMiddleware(newMapCache(), time.Minute))
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(func(_ context.Context, q echoQuery) (string, error) {
		calls++
		return q.Value, nil
	})))
	require.NoError(t, b.Register(clockQuery{}, HandlerFor(func(context.Context, clockQuery) (int, error) {
		calls++
		return calls, nil
	})))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := b.Ask(ctx, echoQuery{Value: "a"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)

	_, err := b.Ask(ctx, echoQuery{Value: "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	first, _ := b.Ask(ctx, clockQuery{})
	second, _ := b.Ask(ctx, clockQuery{})
	assert.NotEqual(t, first, second, "volatile queries bypass the cache")
}

func TestCachingMiddleware_SkipsResultsReadBeforeClear(t *testing.T) {
	cache := newMapCache()
	calls := 0
	b := NewQueryBus(CachingMiddleware(cache, time.Minute))
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(func(_ context.Context, q echoQuery) (string, error) {
		calls++
		if calls == 1 {
			// a command commits and invalidates while this read is in flight
			cache.clear()
		}
		return q.Value, nil
	})))

	ctx := context.Background()
	_, err := b.Ask(ctx, echoQuery{Value: "a"})
	require.NoError(t, err)
	_, err = b.Ask(ctx, echoQuery{Value: "a"})
	require.NoError(t, err)
	_, err = b.Ask(ctx, echoQuery{Value: "a"})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestMetricsMiddleware(t *testing.T) {
	ctx := context.Background()
	metrics := new(mocks.MockMetrics)
	metrics.On("RecordCommandExecution", ctx, "echoQuery", mock.AnythingOfType("time.Duration"), nil).Once()

	b := NewQueryBus(MetricsMiddleware(metrics))
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(func(_ context.Context, q echoQuery) (string, error) {
		return q.Value, nil
	})))

	_, err := b.Ask(ctx, echoQuery{Value: "x"})
	require.NoError(t, err)
	metrics.AssertExpectations(t)
}
