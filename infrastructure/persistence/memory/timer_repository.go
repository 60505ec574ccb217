package memory

import (
	"context"

	"mappamentis/application/ports"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// TimerRepository keeps pomodoro timers in memory
type TimerRepository struct {
	store *store[aggregates.TimerSnapshot]
	opts  []aggregates.Option
}

// NewTimerRepository creates an empty repository; opts are applied to every loaded timer
func NewTimerRepository(opts ...aggregates.Option) *TimerRepository {
	return &TimerRepository{
		store: newStore("timer", func(s aggregates.TimerSnapshot) int { return s.Version }),
		opts:  opts,
	}
}

// Load retrieves a timer by its ID
func (r *TimerRepository) Load(ctx context.Context, id valueobjects.TimerID) (*aggregates.PomodoroTimer, error) {
	snap, ok := r.store.get(id.String())
	if !ok {
		return nil, pkgerrors.NewNotFoundError("timer").WithDetail("id", id.String())
	}
	return aggregates.RehydratePomodoroTimer(snap, r.opts...)
}

// LoadByMap retrieves every timer attached to a map
func (r *TimerRepository) LoadByMap(ctx context.Context, mapID valueobjects.MapID) ([]*aggregates.PomodoroTimer, error) {
	var timers []*aggregates.PomodoroTimer
	for _, snap := range r.store.all() {
		if snap.MapID != mapID.String() {
			continue
		}
		timer, err := aggregates.RehydratePomodoroTimer(snap, r.opts...)
		if err != nil {
			return nil, err
		}
		timers = append(timers, timer)
	}
	return timers, nil
}

// Save stages a timer in the caller's unit of work
func (r *TimerRepository) Save(ctx context.Context, timer *aggregates.PomodoroTimer) error {
	if timer == nil {
		return pkgerrors.NewInvalidArgumentError("timer cannot be nil")
	}
	return r.store.stage(ctx, timer.ID().String(), timer.Snapshot(), timer.PersistedVersion())
}

// Delete stages removal of a timer
func (r *TimerRepository) Delete(ctx context.Context, id valueobjects.TimerID) error {
	return r.store.stageDelete(ctx, id.String())
}

// Commit flushes the writes staged in the caller's unit of work
func (r *TimerRepository) Commit(ctx context.Context) error {
	return r.store.commit(ctx)
}

var _ ports.TimerRepository = (*TimerRepository)(nil)
