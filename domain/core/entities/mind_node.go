package entities

import (
	"time"

	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// DefaultNodeColor is applied when a node is created without a color
const DefaultNodeColor = "#FFFFFF"

// MindNode is a single idea on a mind map
// It owns its markdown notes exclusively
type MindNode struct {
	id        valueobjects.NodeID
	mapID     valueobjects.MapID
	content   string
	position  valueobjects.Position
	color     string
	createdAt time.Time
	updatedAt time.Time
	notes     []*MarkdownNote
}

// NewMindNode creates a node on the given map
func NewMindNode(
	id valueobjects.NodeID,
	mapID valueobjects.MapID,
	content string,
	position valueobjects.Position,
	color string,
	now time.Time,
) (*MindNode, error) {
	return ReconstructMindNode(id, mapID, content, position, color, now, now, nil)
}

// ReconstructMindNode rebuilds a node and its notes from stored data
func ReconstructMindNode(
	id valueobjects.NodeID,
	mapID valueobjects.MapID,
	content string,
	position valueobjects.Position,
	color string,
	createdAt, updatedAt time.Time,
	notes []*MarkdownNote,
) (*MindNode, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("node ID is required")
	}
	if mapID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("node must belong to a mind map")
	}
	if color == "" {
		color = DefaultNodeColor
	}

	node := &MindNode{
		id:        id,
		mapID:     mapID,
		content:   content,
		position:  position,
		color:     color,
		createdAt: createdAt,
		updatedAt: updatedAt,
		notes:     make([]*MarkdownNote, 0, len(notes)),
	}

	for _, note := range notes {
		if err := node.attach(note); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (n *MindNode) ID() valueobjects.NodeID         { return n.id }
func (n *MindNode) MapID() valueobjects.MapID       { return n.mapID }
func (n *MindNode) Content() string                 { return n.content }
func (n *MindNode) Position() valueobjects.Position { return n.position }
func (n *MindNode) Color() string                   { return n.color }
func (n *MindNode) CreatedAt() time.Time            { return n.createdAt }
func (n *MindNode) UpdatedAt() time.Time            { return n.updatedAt }
func (n *MindNode) NoteCount() int                  { return len(n.notes) }

// Notes returns copies of the node's notes in insertion order
func (n *MindNode) Notes() []*MarkdownNote {
	notes := make([]*MarkdownNote, len(n.notes))
	for i, note := range n.notes {
		notes[i] = note.Clone()
	}
	return notes
}

// Note returns a copy of the note with the given ID
func (n *MindNode) Note(id valueobjects.NoteID) (*MarkdownNote, bool) {
	if i := n.indexOf(id); i >= 0 {
		return n.notes[i].Clone(), true
	}
	return nil, false
}

// Update replaces the node's content, position and color
func (n *MindNode) Update(content string, position valueobjects.Position, color string, now time.Time) {
	if color == "" {
		color = DefaultNodeColor
	}
	n.content = content
	n.position = position
	n.color = color
	n.updatedAt = now
}

// AddNote attaches a note to this node
func (n *MindNode) AddNote(note *MarkdownNote, now time.Time) error {
	if err := n.attach(note); err != nil {
		return err
	}
	n.updatedAt = now
	return nil
}

// UpdateNote edits an attached note
func (n *MindNode) UpdateNote(id valueobjects.NoteID, title, content string, now time.Time) error {
	i := n.indexOf(id)
	if i < 0 {
		return pkgerrors.NewNotFoundError("note")
	}
	n.notes[i].Update(title, content, now)
	n.updatedAt = now
	return nil
}

// RemoveNote detaches a note; it reports whether anything was removed
func (n *MindNode) RemoveNote(id valueobjects.NoteID, now time.Time) bool {
	i := n.indexOf(id)
	if i < 0 {
		return false
	}
	n.notes = append(n.notes[:i], n.notes[i+1:]...)
	n.updatedAt = now
	return true
}

// ClearNotes removes every note; it reports whether anything was removed
func (n *MindNode) ClearNotes(now time.Time) bool {
	if len(n.notes) == 0 {
		return false
	}
	n.notes = n.notes[:0]
	n.updatedAt = now
	return true
}

// Clone returns a deep copy of the node and its notes
func (n *MindNode) Clone() *MindNode {
	c := *n
	c.notes = n.Notes()
	return &c
}

func (n *MindNode) attach(note *MarkdownNote) error {
	if note == nil {
		return pkgerrors.NewInvalidArgumentError("note is required")
	}
	if !note.NodeID().Equals(n.id) {
		return pkgerrors.NewInvalidArgumentError("note belongs to a different node")
	}
	if n.indexOf(note.ID()) >= 0 {
		return pkgerrors.NewDuplicateIDError("note", note.ID().String())
	}
	n.notes = append(n.notes, note.Clone())
	return nil
}

func (n *MindNode) indexOf(id valueobjects.NoteID) int {
	for i, note := range n.notes {
		if note.ID().Equals(id) {
			return i
		}
	}
	return -1
}
