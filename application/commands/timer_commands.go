package commands

import "mappamentis/pkg/utils"

// CreateTimerCommand attaches a pomodoro timer to a map
// Zero durations fall back to the configured defaults.
type CreateTimerCommand struct {
	TimerID      string `json:"timer_id" validate:"required,uuid"`
	MapID        string `json:"map_id" validate:"required,uuid"`
	WorkMinutes  int    `json:"work_minutes" validate:"gte=0,lte=1440"`
	BreakMinutes int    `json:"break_minutes" validate:"gte=0,lte=1440"`
}

func (c CreateTimerCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateTimerDurationsCommand changes an idle timer's durations
type UpdateTimerDurationsCommand struct {
	TimerID      string `json:"timer_id" validate:"required,uuid"`
	WorkMinutes  int    `json:"work_minutes" validate:"required,gte=1,lte=1440"`
	BreakMinutes int    `json:"break_minutes" validate:"required,gte=1,lte=1440"`
}

func (c UpdateTimerDurationsCommand) Validate() error { return utils.ValidateStruct(c) }

// TimerAction names a state transition of a pomodoro timer
type TimerAction string

const (
	TimerActionStart         TimerAction = "start"
	TimerActionPause         TimerAction = "pause"
	TimerActionResume        TimerAction = "resume"
	TimerActionStop          TimerAction = "stop"
	TimerActionCompleteWork  TimerAction = "complete-work"
	TimerActionCompleteBreak TimerAction = "complete-break"
	TimerActionResetSessions TimerAction = "reset-sessions"
)

// TimerTransitionCommand drives one timer state transition
type TimerTransitionCommand struct {
	TimerID string      `json:"timer_id" validate:"required,uuid"`
	Action  TimerAction `json:"action" validate:"required,oneof=start pause resume stop complete-work complete-break reset-sessions"`
}

func (c TimerTransitionCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteTimerCommand removes a timer
type DeleteTimerCommand struct {
	TimerID string `json:"timer_id" validate:"required,uuid"`
}

func (c DeleteTimerCommand) Validate() error { return utils.ValidateStruct(c) }
