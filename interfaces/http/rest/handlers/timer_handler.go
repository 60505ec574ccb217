package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"mappamentis/application/commands"
	"mappamentis/application/queries"
)

// TimerHandler serves pomodoro timers
type TimerHandler struct {
	base
}

// NewTimerHandler creates a new timer handler
func NewTimerHandler(d Deps) *TimerHandler {
	return &TimerHandler{base: newBase(d)}
}

// CreateTimerRequest is the body of POST /maps/{mapID}/timers; zero durations use the defaults
type CreateTimerRequest struct {
	WorkMinutes  int `json:"workMinutes"`
	BreakMinutes int `json:"breakMinutes"`
}

// DurationsRequest is the body of PUT /timers/{timerID}/durations
type DurationsRequest struct {
	WorkMinutes  int `json:"workMinutes"`
	BreakMinutes int `json:"breakMinutes"`
}

// CreateTimer handles POST /maps/{mapID}/timers
func (h *TimerHandler) CreateTimer(w http.ResponseWriter, r *http.Request) {
	var req CreateTimerRequest
	if !h.decode(w, r, &req) {
		return
	}

	timerID := uuid.NewString()
	cmd := commands.CreateTimerCommand{
		TimerID:      timerID,
		MapID:        param(r, "mapID"),
		WorkMinutes:  req.WorkMinutes,
		BreakMinutes: req.BreakMinutes,
	}
	execute[queries.TimerView](h.base, w, r, http.StatusCreated, cmd, queries.GetTimerQuery{TimerID: timerID})
}

// ListTimers handles GET /maps/{mapID}/timers
func (h *TimerHandler) ListTimers(w http.ResponseWriter, r *http.Request) {
	ask[[]queries.TimerView](h.base, w, r, http.StatusOK, queries.ListTimersQuery{MapID: param(r, "mapID")})
}

// GetTimer handles GET /timers/{timerID}
func (h *TimerHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	ask[queries.TimerView](h.base, w, r, http.StatusOK, queries.GetTimerQuery{TimerID: param(r, "timerID")})
}

// DeleteTimer handles DELETE /timers/{timerID}
func (h *TimerHandler) DeleteTimer(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteTimerCommand{TimerID: param(r, "timerID")})
}

// Transition handles POST /timers/{timerID}/{action}
func (h *TimerHandler) Transition(w http.ResponseWriter, r *http.Request) {
	timerID := param(r, "timerID")
	cmd := commands.TimerTransitionCommand{
		TimerID: timerID,
		Action:  commands.TimerAction(param(r, "action")),
	}
	execute[queries.TimerView](h.base, w, r, http.StatusOK, cmd, queries.GetTimerQuery{TimerID: timerID})
}

// UpdateDurations handles PUT /timers/{timerID}/durations
func (h *TimerHandler) UpdateDurations(w http.ResponseWriter, r *http.Request) {
	var req DurationsRequest
	if !h.decode(w, r, &req) {
		return
	}

	timerID := param(r, "timerID")
	cmd := commands.UpdateTimerDurationsCommand{
		TimerID:      timerID,
		WorkMinutes:  req.WorkMinutes,
		BreakMinutes: req.BreakMinutes,
	}
	execute[queries.TimerView](h.base, w, r, http.StatusOK, cmd, queries.GetTimerQuery{TimerID: timerID})
}
