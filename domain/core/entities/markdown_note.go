package entities

import (
	"time"

	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// MarkdownNote is a rich-text note owned by a single MindNode
type MarkdownNote struct {
	id        valueobjects.NoteID
	nodeID    valueobjects.NodeID
	title     string
	content   string
	createdAt time.Time
	updatedAt time.Time
}

// NewMarkdownNote creates a note owned by the given node
func NewMarkdownNote(id valueobjects.NoteID, nodeID valueobjects.NodeID, title, content string, now time.Time) (*MarkdownNote, error) {
	return ReconstructMarkdownNote(id, nodeID, title, content, now, now)
}

// ReconstructMarkdownNote rebuilds a note from stored data with preserved timestamps
func ReconstructMarkdownNote(
	id valueobjects.NoteID,
	nodeID valueobjects.NodeID,
	title, content string,
	createdAt, updatedAt time.Time,
) (*MarkdownNote, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("note ID is required")
	}
	if nodeID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("note must belong to a node")
	}

	return &MarkdownNote{
		id:        id,
		nodeID:    nodeID,
		title:     title,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (n *MarkdownNote) ID() valueobjects.NoteID     { return n.id }
func (n *MarkdownNote) NodeID() valueobjects.NodeID { return n.nodeID }
func (n *MarkdownNote) Title() string               { return n.title }
func (n *MarkdownNote) Content() string             { return n.content }
func (n *MarkdownNote) CreatedAt() time.Time        { return n.createdAt }
func (n *MarkdownNote) UpdatedAt() time.Time        { return n.updatedAt }

// Update replaces the note's title and body
func (n *MarkdownNote) Update(title, content string, now time.Time) {
	n.title = title
	n.content = content
	n.updatedAt = now
}

// Clone returns an independent copy of the note
func (n *MarkdownNote) Clone() *MarkdownNote {
	c := *n
	return &c
}
