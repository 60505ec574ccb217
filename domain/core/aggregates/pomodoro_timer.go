package aggregates

import (
	"fmt"
	"time"

	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
	pkgerrors "mappamentis/pkg/errors"
)

// TimerState is the phase a pomodoro timer is in
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
	TimerOnBreak
	// TimerCompleted is reserved; no transition enters it.
	TimerCompleted
)

var timerStateNames = map[TimerState]string{
	TimerIdle:      "Idle",
	TimerRunning:   "Running",
	TimerPaused:    "Paused",
	TimerOnBreak:   "OnBreak",
	TimerCompleted: "Completed",
}

// String returns the state name
func (s TimerState) String() string {
	if name, ok := timerStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TimerState(%d)", int(s))
}

// ParseTimerState converts a state name back into a TimerState
func ParseTimerState(name string) (TimerState, error) {
	for state, n := range timerStateNames {
		if n == name {
			return state, nil
		}
	}
	return TimerIdle, pkgerrors.NewInvalidArgumentError("unknown timer state: " + name)
}

// PomodoroTimer is the aggregate root for a work/break timer tied to a mind map
type PomodoroTimer struct {
	id           valueobjects.TimerID
	mapID        valueobjects.MapID
	workMinutes  int
	breakMinutes int
	sessionCount int
	state        TimerState
	startedAt    *time.Time
	pausedAt     *time.Time
	remaining    *time.Duration
	createdAt    time.Time
	updatedAt    time.Time
	version      int

	persistedVersion int

	clock  Clock
	events []events.DomainEvent
}

// NewPomodoroTimer creates an idle timer
func NewPomodoroTimer(id valueobjects.TimerID, mapID valueobjects.MapID, workMinutes, breakMinutes int, opts ...Option) (*PomodoroTimer, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("timer ID is required")
	}
	if mapID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("timer must belong to a mind map")
	}
	if err := validateDurations(workMinutes, breakMinutes); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	now := o.clock()

	return &PomodoroTimer{
		id:           id,
		mapID:        mapID,
		workMinutes:  workMinutes,
		breakMinutes: breakMinutes,
		state:        TimerIdle,
		createdAt:    now,
		updatedAt:    now,
		version:      1,
		clock:        o.clock,
		events:       []events.DomainEvent{},
	}, nil
}

func (t *PomodoroTimer) ID() valueobjects.TimerID  { return t.id }
func (t *PomodoroTimer) MapID() valueobjects.MapID { return t.mapID }
func (t *PomodoroTimer) WorkMinutes() int          { return t.workMinutes }
func (t *PomodoroTimer) BreakMinutes() int         { return t.breakMinutes }
func (t *PomodoroTimer) SessionCount() int         { return t.sessionCount }
func (t *PomodoroTimer) State() TimerState         { return t.state }
func (t *PomodoroTimer) CreatedAt() time.Time      { return t.createdAt }
func (t *PomodoroTimer) UpdatedAt() time.Time      { return t.updatedAt }
func (t *PomodoroTimer) Version() int              { return t.version }

// StartedAt returns the running anchor, if any
func (t *PomodoroTimer) StartedAt() *time.Time { return copyTime(t.startedAt) }

// PausedAt returns when the timer was paused, if it is paused
func (t *PomodoroTimer) PausedAt() *time.Time { return copyTime(t.pausedAt) }

// Remaining returns the length of the current work session or break, if one is active
func (t *PomodoroTimer) Remaining() *time.Duration {
	if t.remaining == nil {
		return nil
	}
	d := *t.remaining
	return &d
}

// Elapsed returns how long the current work session has been running, excluding pauses
func (t *PomodoroTimer) Elapsed() time.Duration {
	if t.startedAt == nil {
		return 0
	}
	switch t.state {
	case TimerRunning:
		return t.clock().Sub(*t.startedAt)
	case TimerPaused:
		if t.pausedAt != nil {
			return t.pausedAt.Sub(*t.startedAt)
		}
	}
	return 0
}

// TimeLeft returns what is left of the active work session or break
func (t *PomodoroTimer) TimeLeft() time.Duration {
	if t.remaining == nil {
		return 0
	}
	switch t.state {
	case TimerRunning, TimerPaused:
		if left := *t.remaining - t.Elapsed(); left > 0 {
			return left
		}
		return 0
	case TimerOnBreak:
		return *t.remaining
	}
	return 0
}

// Start begins a new work session
func (t *PomodoroTimer) Start() error {
	if t.state == TimerRunning {
		return pkgerrors.NewInvalidStateError("timer is already running")
	}

	now := t.clock()
	remaining := time.Duration(t.workMinutes) * time.Minute
	t.state = TimerRunning
	t.startedAt = &now
	t.pausedAt = nil
	t.remaining = &remaining
	t.sessionCount++
	t.touch(now)

	t.addEvent(events.NewTimerStarted(t.id.String(), t.mapID.String(), t.workMinutes, t.sessionCount, t.version, now))

	return nil
}

// Pause freezes a running work session
func (t *PomodoroTimer) Pause() error {
	if t.state != TimerRunning {
		return pkgerrors.NewInvalidStateError("timer is not running")
	}

	now := t.clock()
	t.state = TimerPaused
	t.pausedAt = &now
	t.touch(now)

	return nil
}

// Resume continues a paused work session
// The start anchor moves forward by the paused interval so elapsed time is preserved.
func (t *PomodoroTimer) Resume() error {
	if t.state != TimerPaused {
		return pkgerrors.NewInvalidStateError("timer is not paused")
	}

	now := t.clock()
	if t.startedAt != nil && t.pausedAt != nil {
		shifted := t.startedAt.Add(now.Sub(*t.pausedAt))
		t.startedAt = &shifted
	}
	t.state = TimerRunning
	t.pausedAt = nil
	t.touch(now)

	return nil
}

// Stop returns the timer to idle from any state
func (t *PomodoroTimer) Stop() {
	now := t.clock()
	t.state = TimerIdle
	t.startedAt = nil
	t.pausedAt = nil
	t.remaining = nil
	t.touch(now)

	t.addEvent(events.NewTimerStopped(t.id.String(), t.mapID.String(), t.version, now))
}

// CompleteWorkSession ends the active work session and starts the break
func (t *PomodoroTimer) CompleteWorkSession() error {
	if t.state != TimerRunning && t.state != TimerPaused {
		return pkgerrors.NewInvalidStateError("no work session is currently active")
	}

	now := t.clock()
	remaining := time.Duration(t.breakMinutes) * time.Minute
	t.state = TimerOnBreak
	t.remaining = &remaining
	t.touch(now)

	t.addEvent(events.NewWorkSessionCompleted(t.id.String(), t.mapID.String(), t.sessionCount, t.breakMinutes, t.version, now))

	return nil
}

// CompleteBreak ends the break and returns the timer to idle
func (t *PomodoroTimer) CompleteBreak() error {
	if t.state != TimerOnBreak {
		return pkgerrors.NewInvalidStateError("no break is currently active")
	}

	now := t.clock()
	t.state = TimerIdle
	t.remaining = nil
	t.touch(now)

	t.addEvent(events.NewBreakCompleted(t.id.String(), t.mapID.String(), t.version, now))

	return nil
}

// UpdateDurations changes the work and break lengths of an idle timer
func (t *PomodoroTimer) UpdateDurations(workMinutes, breakMinutes int) error {
	if t.state != TimerIdle {
		return pkgerrors.NewInvalidStateError("cannot change durations while timer is active")
	}
	if err := validateDurations(workMinutes, breakMinutes); err != nil {
		return err
	}

	t.workMinutes = workMinutes
	t.breakMinutes = breakMinutes
	t.touch(t.clock())

	return nil
}

// ResetSessionCount sets the session counter back to zero
func (t *PomodoroTimer) ResetSessionCount() {
	t.sessionCount = 0
	t.touch(t.clock())
}

// Validate checks that the timestamps and remaining time agree with the state
func (t *PomodoroTimer) Validate() error {
	invalid := func(msg string) error {
		return pkgerrors.NewInvalidArgumentError(msg).
			WithDetail("timer_id", t.id.String()).
			WithDetail("state", t.state.String())
	}

	if t.remaining != nil && *t.remaining < 0 {
		return invalid("remaining time cannot be negative")
	}

	switch t.state {
	case TimerIdle:
		if t.remaining != nil {
			return invalid("idle timer cannot have remaining time")
		}
	case TimerRunning:
		if t.startedAt == nil || t.remaining == nil {
			return invalid("running timer needs a start time and remaining time")
		}
		if t.pausedAt != nil {
			return invalid("running timer cannot have a pause time")
		}
	case TimerPaused:
		if t.startedAt == nil || t.pausedAt == nil || t.remaining == nil {
			return invalid("paused timer needs start, pause and remaining times")
		}
		if t.pausedAt.Before(*t.startedAt) {
			return invalid("timer cannot be paused before it started")
		}
	case TimerOnBreak:
		if t.remaining == nil {
			return invalid("timer on break needs remaining time")
		}
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (t *PomodoroTimer) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(t.events))
	copy(out, t.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events and records the current version as persisted
func (t *PomodoroTimer) MarkEventsAsCommitted() {
	t.events = []events.DomainEvent{}
	t.persistedVersion = t.version
}

// PersistedVersion returns the version storage is expected to hold, 0 for a timer never stored
func (t *PomodoroTimer) PersistedVersion() int {
	return t.persistedVersion
}

func (t *PomodoroTimer) touch(now time.Time) {
	t.updatedAt = now
	t.version++
}

func (t *PomodoroTimer) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

func validateDurations(workMinutes, breakMinutes int) error {
	if workMinutes <= 0 {
		return pkgerrors.NewInvalidArgumentError("work duration must be greater than 0").
			WithDetail("work_minutes", workMinutes)
	}
	if breakMinutes <= 0 {
		return pkgerrors.NewInvalidArgumentError("break duration must be greater than 0").
			WithDetail("break_minutes", breakMinutes)
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
