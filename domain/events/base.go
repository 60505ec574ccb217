package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// Event type names
const (
	TypeMindMapCreated       = "mindmap.created"
	TypeNodeAdded            = "node.added"
	TypeNodeRemoved          = "node.removed"
	TypeLinkAdded            = "link.added"
	TypeNoteAdded            = "note.added"
	TypeIdeaCaptured         = "idea.captured"
	TypeTimerStarted         = "timer.started"
	TypeWorkSessionCompleted = "timer.work_session_completed"
	TypeBreakCompleted       = "timer.break_completed"
	TypeTimerStopped         = "timer.stopped"
)

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, version int, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     version,
	}
}

// Mind map events

// MindMapCreated is raised when a new mind map is created
type MindMapCreated struct {
	BaseEvent
	MapID string `json:"map_id"`
	Title string `json:"title"`
}

// NewMindMapCreated creates a MindMapCreated event
func NewMindMapCreated(mapID, title string, version int, timestamp time.Time) MindMapCreated {
	return MindMapCreated{
		BaseEvent: newBase(mapID, TypeMindMapCreated, version, timestamp),
		MapID:     mapID,
		Title:     title,
	}
}

// NodeAdded is raised when a node is inserted into a mind map
type NodeAdded struct {
	BaseEvent
	MapID   string `json:"map_id"`
	NodeID  string `json:"node_id"`
	Content string `json:"content"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(mapID, nodeID, content string, x, y, version int, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: newBase(mapID, TypeNodeAdded, version, timestamp),
		MapID:     mapID,
		NodeID:    nodeID,
		Content:   content,
		X:         x,
		Y:         y,
	}
}

// NodeRemoved is raised when a node and its incident links leave a mind map
type NodeRemoved struct {
	BaseEvent
	MapID          string   `json:"map_id"`
	NodeID         string   `json:"node_id"`
	RemovedLinkIDs []string `json:"removed_link_ids"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(mapID, nodeID string, removedLinkIDs []string, version int, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent:      newBase(mapID, TypeNodeRemoved, version, timestamp),
		MapID:          mapID,
		NodeID:         nodeID,
		RemovedLinkIDs: removedLinkIDs,
	}
}

// LinkAdded is raised when two nodes are linked
type LinkAdded struct {
	BaseEvent
	MapID    string `json:"map_id"`
	LinkID   string `json:"link_id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label"`
}

// NewLinkAdded creates a LinkAdded event
func NewLinkAdded(mapID, linkID, sourceID, targetID, label string, version int, timestamp time.Time) LinkAdded {
	return LinkAdded{
		BaseEvent: newBase(mapID, TypeLinkAdded, version, timestamp),
		MapID:     mapID,
		LinkID:    linkID,
		SourceID:  sourceID,
		TargetID:  targetID,
		Label:     label,
	}
}

// NoteAdded is raised when a markdown note is attached to a node
type NoteAdded struct {
	BaseEvent
	MapID  string `json:"map_id"`
	NodeID string `json:"node_id"`
	NoteID string `json:"note_id"`
	Title  string `json:"title"`
}

// NewNoteAdded creates a NoteAdded event
func NewNoteAdded(mapID, nodeID, noteID, title string, version int, timestamp time.Time) NoteAdded {
	return NoteAdded{
		BaseEvent: newBase(mapID, TypeNoteAdded, version, timestamp),
		MapID:     mapID,
		NodeID:    nodeID,
		NoteID:    noteID,
		Title:     title,
	}
}

// IdeaCaptured is raised when a quick idea lands on a map as a new node
type IdeaCaptured struct {
	BaseEvent
	MapID    string `json:"map_id"`
	NodeID   string `json:"node_id"`
	Idea     string `json:"idea"`
	Category string `json:"category"`
}

// NewIdeaCaptured creates an IdeaCaptured event
func NewIdeaCaptured(mapID, nodeID, idea, category string, version int, timestamp time.Time) IdeaCaptured {
	return IdeaCaptured{
		BaseEvent: newBase(mapID, TypeIdeaCaptured, version, timestamp),
		MapID:     mapID,
		NodeID:    nodeID,
		Idea:      idea,
		Category:  category,
	}
}

// Timer events

// TimerStarted is raised when a work session begins
type TimerStarted struct {
	BaseEvent
	TimerID         string `json:"timer_id"`
	MapID           string `json:"map_id"`
	DurationMinutes int    `json:"duration_minutes"`
	SessionNumber   int    `json:"session_number"`
}

// NewTimerStarted creates a TimerStarted event
func NewTimerStarted(timerID, mapID string, durationMinutes, sessionNumber, version int, timestamp time.Time) TimerStarted {
	return TimerStarted{
		BaseEvent:       newBase(timerID, TypeTimerStarted, version, timestamp),
		TimerID:         timerID,
		MapID:           mapID,
		DurationMinutes: durationMinutes,
		SessionNumber:   sessionNumber,
	}
}

// WorkSessionCompleted is raised when a timer moves onto its break
type WorkSessionCompleted struct {
	BaseEvent
	TimerID       string `json:"timer_id"`
	MapID         string `json:"map_id"`
	SessionNumber int    `json:"session_number"`
	BreakMinutes  int    `json:"break_minutes"`
}

// NewWorkSessionCompleted creates a WorkSessionCompleted event
func NewWorkSessionCompleted(timerID, mapID string, sessionNumber, breakMinutes, version int, timestamp time.Time) WorkSessionCompleted {
	return WorkSessionCompleted{
		BaseEvent:     newBase(timerID, TypeWorkSessionCompleted, version, timestamp),
		TimerID:       timerID,
		MapID:         mapID,
		SessionNumber: sessionNumber,
		BreakMinutes:  breakMinutes,
	}
}

// BreakCompleted is raised when a break ends and the timer returns to idle
type BreakCompleted struct {
	BaseEvent
	TimerID string `json:"timer_id"`
	MapID   string `json:"map_id"`
}

// NewBreakCompleted creates a BreakCompleted event
func NewBreakCompleted(timerID, mapID string, version int, timestamp time.Time) BreakCompleted {
	return BreakCompleted{
		BaseEvent: newBase(timerID, TypeBreakCompleted, version, timestamp),
		TimerID:   timerID,
		MapID:     mapID,
	}
}

// TimerStopped is raised when a timer is stopped
type TimerStopped struct {
	BaseEvent
	TimerID string `json:"timer_id"`
	MapID   string `json:"map_id"`
}

// NewTimerStopped creates a TimerStopped event
func NewTimerStopped(timerID, mapID string, version int, timestamp time.Time) TimerStopped {
	return TimerStopped{
		BaseEvent: newBase(timerID, TypeTimerStopped, version, timestamp),
		TimerID:   timerID,
		MapID:     mapID,
	}
}
