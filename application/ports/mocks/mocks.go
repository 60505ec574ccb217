// Package mocks provides testify mock implementations of the application ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"mappamentis/application/ports"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
)

// MockMindMapRepository is a mock of ports.MindMapRepository
type MockMindMapRepository struct {
	mock.Mock
}

func (m *MockMindMapRepository) Load(ctx context.Context, id valueobjects.MapID) (*aggregates.MindMap, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregates.MindMap), args.Error(1)
}

func (m *MockMindMapRepository) LoadAll(ctx context.Context) ([]*aggregates.MindMap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*aggregates.MindMap), args.Error(1)
}

func (m *MockMindMapRepository) Save(ctx context.Context, mindMap *aggregates.MindMap) error {
	return m.Called(ctx, mindMap).Error(0)
}

func (m *MockMindMapRepository) Delete(ctx context.Context, id valueobjects.MapID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMindMapRepository) Exists(ctx context.Context, id valueobjects.MapID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMindMapRepository) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockTimerRepository is a mock of ports.TimerRepository
type MockTimerRepository struct {
	mock.Mock
}

func (m *MockTimerRepository) Load(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregates.PomodoroTimer), args.Error(1)
}

func (m *MockTimerRepository) LoadByMap(ctx context.Context, mapID valueobjects.MapID) ([]*aggregates.PomodoroTimer, error) {
	args := m.Called(ctx, mapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*aggregates.PomodoroTimer), args.Error(1)
}

func (m *MockTimerRepository) Save(ctx context.Context, timer *aggregates.PomodoroTimer) error {
	return m.Called(ctx, timer).Error(0)
}

func (m *MockTimerRepository) Delete(ctx context.Context, id valueobjects.TimerID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTimerRepository) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockEventBus is a mock of ports.EventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	return m.Called(ctx, evts).Error(0)
}

func (m *MockEventBus) Subscribe(eventType string, handler ports.EventHandler) {
	m.Called(eventType, handler)
}

func (m *MockEventBus) SubscribeAll(handler ports.EventHandler) {
	m.Called(handler)
}

// MockMetrics is a mock of ports.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordCommandExecution(ctx context.Context, commandName string, duration time.Duration, err error) {
	m.Called(ctx, commandName, duration, err)
}

func (m *MockMetrics) RecordBusinessMetric(ctx context.Context, metricName string, value float64, dimensions map[string]string) {
	m.Called(ctx, metricName, value, dimensions)
}

var (
	_ ports.MindMapRepository = (*MockMindMapRepository)(nil)
	_ ports.TimerRepository   = (*MockTimerRepository)(nil)
	_ ports.EventBus          = (*MockEventBus)(nil)
	_ ports.Metrics           = (*MockMetrics)(nil)
)
