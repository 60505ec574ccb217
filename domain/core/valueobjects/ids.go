package valueobjects

import (
	"github.com/google/uuid"

	pkgerrors "mappamentis/pkg/errors"
)

// Identifiers are value objects: immutable, compared by value, and never empty
// once constructed through a New*/Parse* function.

// MapID uniquely identifies a mind map
type MapID struct {
	value string
}

// NewMapID creates a new random MapID
func NewMapID() MapID {
	return MapID{value: uuid.New().String()}
}

// ParseMapID creates a MapID from an existing string
func ParseMapID(id string) (MapID, error) {
	v, err := parseUUID("map ID", id)
	return MapID{value: v}, err
}

// String returns the string representation of the MapID
func (id MapID) String() string { return id.value }

// Equals checks if two MapIDs are equal
func (id MapID) Equals(other MapID) bool { return id.value == other.value }

// IsZero checks if the MapID is the zero value
func (id MapID) IsZero() bool { return id.value == "" }

// NodeID uniquely identifies a node within a mind map
type NodeID struct {
	value string
}

// NewNodeID creates a new random NodeID
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// ParseNodeID creates a NodeID from an existing string
func ParseNodeID(id string) (NodeID, error) {
	v, err := parseUUID("node ID", id)
	return NodeID{value: v}, err
}

// String returns the string representation of the NodeID
func (id NodeID) String() string { return id.value }

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool { return id.value == other.value }

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool { return id.value == "" }

// LinkID uniquely identifies a link within a mind map
type LinkID struct {
	value string
}

// NewLinkID creates a new random LinkID
func NewLinkID() LinkID {
	return LinkID{value: uuid.New().String()}
}

// ParseLinkID creates a LinkID from an existing string
func ParseLinkID(id string) (LinkID, error) {
	v, err := parseUUID("link ID", id)
	return LinkID{value: v}, err
}

// String returns the string representation of the LinkID
func (id LinkID) String() string { return id.value }

// Equals checks if two LinkIDs are equal
func (id LinkID) Equals(other LinkID) bool { return id.value == other.value }

// IsZero checks if the LinkID is the zero value
func (id LinkID) IsZero() bool { return id.value == "" }

// NoteID uniquely identifies a markdown note attached to a node
type NoteID struct {
	value string
}

// NewNoteID creates a new random NoteID
func NewNoteID() NoteID {
	return NoteID{value: uuid.New().String()}
}

// ParseNoteID creates a NoteID from an existing string
func ParseNoteID(id string) (NoteID, error) {
	v, err := parseUUID("note ID", id)
	return NoteID{value: v}, err
}

// String returns the string representation of the NoteID
func (id NoteID) String() string { return id.value }

// Equals checks if two NoteIDs are equal
func (id NoteID) Equals(other NoteID) bool { return id.value == other.value }

// IsZero checks if the NoteID is the zero value
func (id NoteID) IsZero() bool { return id.value == "" }

// TimerID uniquely identifies a pomodoro timer
type TimerID struct {
	value string
}

// NewTimerID creates a new random TimerID
func NewTimerID() TimerID {
	return TimerID{value: uuid.New().String()}
}

// ParseTimerID creates a TimerID from an existing string
func ParseTimerID(id string) (TimerID, error) {
	v, err := parseUUID("timer ID", id)
	return TimerID{value: v}, err
}

// String returns the string representation of the TimerID
func (id TimerID) String() string { return id.value }

// Equals checks if two TimerIDs are equal
func (id TimerID) Equals(other TimerID) bool { return id.value == other.value }

// IsZero checks if the TimerID is the zero value
func (id TimerID) IsZero() bool { return id.value == "" }

// parseUUID validates a non-empty, non-nil UUID and returns its canonical form
func parseUUID(kind, s string) (string, error) {
	if s == "" {
		return "", pkgerrors.NewInvalidArgumentError(kind + " cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", pkgerrors.NewInvalidArgumentError(kind + " must be a valid UUID").WithCause(err)
	}
	if parsed == uuid.Nil {
		return "", pkgerrors.NewInvalidArgumentError(kind + " cannot be the nil UUID")
	}
	return parsed.String(), nil
}
