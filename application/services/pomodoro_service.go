package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/domain/config"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// PomodoroService coordinates pomodoro timers with persistence and event publishing
type PomodoroService struct {
	timers    ports.TimerRepository
	maps      ports.MindMapRepository
	publisher ports.EventPublisher
	config    *config.DomainConfig
	clock     aggregates.Clock
	logger    *zap.Logger
}

// NewPomodoroService creates a new pomodoro service
func NewPomodoroService(
	timers ports.TimerRepository,
	maps ports.MindMapRepository,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *PomodoroService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PomodoroService{
		timers:    timers,
		maps:      maps,
		publisher: publisher,
		config:    cfg,
		clock:     func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// WithClock overrides the time source used for new timers
func (s *PomodoroService) WithClock(clock aggregates.Clock) *PomodoroService {
	s.clock = clock
	return s
}

// CreateTimer attaches a new idle timer to an existing map
// Zero durations fall back to the configured defaults.
func (s *PomodoroService) CreateTimer(
	ctx context.Context,
	timerID valueobjects.TimerID,
	mapID valueobjects.MapID,
	workMinutes, breakMinutes int,
) (*aggregates.PomodoroTimer, error) {
	exists, err := s.maps.Exists(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.NewNotFoundError("mind map")
	}

	if _, err := s.timers.Load(ctx, timerID); err == nil {
		return nil, pkgerrors.NewDuplicateIDError("timer", timerID.String())
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	if workMinutes == 0 {
		workMinutes = s.config.DefaultWorkMinutes
	}
	if breakMinutes == 0 {
		breakMinutes = s.config.DefaultBreakMinutes
	}

	timer, err := aggregates.NewPomodoroTimer(timerID, mapID, workMinutes, breakMinutes, aggregates.WithClock(s.clock))
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, timer); err != nil {
		return nil, err
	}

	s.logger.Info("Pomodoro timer created",
		zap.String("timerID", timerID.String()),
		zap.String("mapID", mapID.String()),
		zap.Int("workMinutes", workMinutes),
		zap.Int("breakMinutes", breakMinutes),
	)

	return timer, nil
}

// GetTimer loads a timer by ID
func (s *PomodoroService) GetTimer(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.timers.Load(ctx, id)
}

// ListTimersForMap returns the map's timers, oldest first
func (s *PomodoroService) ListTimersForMap(ctx context.Context, mapID valueobjects.MapID) ([]*aggregates.PomodoroTimer, error) {
	timers, err := s.timers.LoadByMap(ctx, mapID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(timers, func(i, j int) bool {
		return timers[i].CreatedAt().Before(timers[j].CreatedAt())
	})

	return timers, nil
}

// DeleteTimer removes a timer
func (s *PomodoroService) DeleteTimer(ctx context.Context, id valueobjects.TimerID) error {
	writeCtx := ports.BeginUnitOfWork(ctx)
	if err := s.timers.Delete(writeCtx, id); err != nil {
		return err
	}
	return s.timers.Commit(writeCtx)
}

// Start begins a work session
func (s *PomodoroService) Start(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, (*aggregates.PomodoroTimer).Start)
}

// Pause freezes a running session
func (s *PomodoroService) Pause(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, (*aggregates.PomodoroTimer).Pause)
}

// Resume continues a paused session
func (s *PomodoroService) Resume(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, (*aggregates.PomodoroTimer).Resume)
}

// Stop returns a timer to idle
func (s *PomodoroService) Stop(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, func(t *aggregates.PomodoroTimer) error {
		t.Stop()
		return nil
	})
}

// CompleteWorkSession moves a timer onto its break
func (s *PomodoroService) CompleteWorkSession(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, (*aggregates.PomodoroTimer).CompleteWorkSession)
}

// CompleteBreak ends a break
func (s *PomodoroService) CompleteBreak(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, (*aggregates.PomodoroTimer).CompleteBreak)
}

// UpdateDurations changes the work and break lengths of an idle timer
func (s *PomodoroService) UpdateDurations(ctx context.Context, id valueobjects.TimerID, workMinutes, breakMinutes int) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, func(t *aggregates.PomodoroTimer) error {
		return t.UpdateDurations(workMinutes, breakMinutes)
	})
}

// ResetSessionCount zeroes a timer's session counter
func (s *PomodoroService) ResetSessionCount(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	return s.mutate(ctx, id, func(t *aggregates.PomodoroTimer) error {
		t.ResetSessionCount()
		return nil
	})
}

func (s *PomodoroService) mutate(ctx context.Context, id valueobjects.TimerID, apply func(*aggregates.PomodoroTimer) error) (*aggregates.PomodoroTimer, error) {
	timer, err := s.timers.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(timer); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, timer); err != nil {
		return nil, err
	}

	s.logger.Debug("Pomodoro timer updated",
		zap.String("timerID", id.String()),
		zap.String("state", timer.State().String()),
		zap.Int("sessions", timer.SessionCount()),
	)

	return timer, nil
}

func (s *PomodoroService) persist(ctx context.Context, timer *aggregates.PomodoroTimer) error {
	writeCtx := ports.BeginUnitOfWork(ctx)
	if err := s.timers.Save(writeCtx, timer); err != nil {
		return err
	}
	if err := s.timers.Commit(writeCtx); err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, timer.GetUncommittedEvents())
	timer.MarkEventsAsCommitted()

	return nil
}
