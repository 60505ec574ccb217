package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mappamentis/application/commands"
	"mappamentis/application/commands/bus"
	"mappamentis/application/services"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// TimerCommandHandler turns pomodoro commands into service calls
type TimerCommandHandler struct {
	service *services.PomodoroService
	logger  *zap.Logger
}

// NewTimerCommandHandler creates a new timer command handler
func NewTimerCommandHandler(service *services.PomodoroService, logger *zap.Logger) *TimerCommandHandler {
	return &TimerCommandHandler{
		service: service,
		logger:  logger,
	}
}

// Register binds every timer command to the bus
func (h *TimerCommandHandler) Register(b *bus.CommandBus) error {
	if err := b.Register(commands.CreateTimerCommand{}, bus.HandlerFor(h.CreateTimer)); err != nil {
		return err
	}
	if err := b.Register(commands.UpdateTimerDurationsCommand{}, bus.HandlerFor(h.UpdateDurations)); err != nil {
		return err
	}
	if err := b.Register(commands.TimerTransitionCommand{}, bus.HandlerFor(h.Transition)); err != nil {
		return err
	}
	return b.Register(commands.DeleteTimerCommand{}, bus.HandlerFor(h.DeleteTimer))
}

// CreateTimer handles CreateTimerCommand
func (h *TimerCommandHandler) CreateTimer(ctx context.Context, cmd commands.CreateTimerCommand) error {
	timerID, err := valueobjects.ParseTimerID(cmd.TimerID)
	if err != nil {
		return err
	}
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}

	_, err = h.service.CreateTimer(ctx, timerID, mapID, cmd.WorkMinutes, cmd.BreakMinutes)
	return err
}

// UpdateDurations handles UpdateTimerDurationsCommand
func (h *TimerCommandHandler) UpdateDurations(ctx context.Context, cmd commands.UpdateTimerDurationsCommand) error {
	timerID, err := valueobjects.ParseTimerID(cmd.TimerID)
	if err != nil {
		return err
	}
	_, err = h.service.UpdateDurations(ctx, timerID, cmd.WorkMinutes, cmd.BreakMinutes)
	return err
}

// Transition handles TimerTransitionCommand
func (h *TimerCommandHandler) Transition(ctx context.Context, cmd commands.TimerTransitionCommand) error {
	timerID, err := valueobjects.ParseTimerID(cmd.TimerID)
	if err != nil {
		return err
	}

	var transition func(context.Context, valueobjects.TimerID) (*aggregates.PomodoroTimer, error)
	switch cmd.Action {
	case commands.TimerActionStart:
		transition = h.service.Start
	case commands.TimerActionPause:
		transition = h.service.Pause
	case commands.TimerActionResume:
		transition = h.service.Resume
	case commands.TimerActionStop:
		transition = h.service.Stop
	case commands.TimerActionCompleteWork:
		transition = h.service.CompleteWorkSession
	case commands.TimerActionCompleteBreak:
		transition = h.service.CompleteBreak
	case commands.TimerActionResetSessions:
		transition = h.service.ResetSessionCount
	default:
		return pkgerrors.NewInvalidArgumentError(fmt.Sprintf("unknown timer action %q", cmd.Action))
	}

	timer, err := transition(ctx, timerID)
	if err != nil {
		return err
	}

	h.logger.Debug("Timer transition applied",
		zap.String("timerID", cmd.TimerID),
		zap.String("action", string(cmd.Action)),
		zap.String("state", timer.State().String()),
	)
	return nil
}

// DeleteTimer handles DeleteTimerCommand
func (h *TimerCommandHandler) DeleteTimer(ctx context.Context, cmd commands.DeleteTimerCommand) error {
	timerID, err := valueobjects.ParseTimerID(cmd.TimerID)
	if err != nil {
		return err
	}
	return h.service.DeleteTimer(ctx, timerID)
}
