package entities

import (
	"time"

	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// Link style defaults
const (
	DefaultLineStyle = "solid"
	DefaultLinkColor = "#000000"
)

// LinkStyle describes how a link is drawn
type LinkStyle struct {
	Label     string
	LineStyle string // e.g. "solid", "dashed", "dotted"
	Color     string
}

// DefaultLinkStyle returns an unlabeled solid black style
func DefaultLinkStyle() LinkStyle {
	return LinkStyle{LineStyle: DefaultLineStyle, Color: DefaultLinkColor}
}

func (s LinkStyle) normalized() LinkStyle {
	if s.LineStyle == "" {
		s.LineStyle = DefaultLineStyle
	}
	if s.Color == "" {
		s.Color = DefaultLinkColor
	}
	return s
}

// MindLink is a directed, labeled connection between two nodes of the same map
type MindLink struct {
	id        valueobjects.LinkID
	mapID     valueobjects.MapID
	sourceID  valueobjects.NodeID
	targetID  valueobjects.NodeID
	style     LinkStyle
	createdAt time.Time
	updatedAt time.Time
}

// NewMindLink creates a link; a node can never be linked to itself
func NewMindLink(
	id valueobjects.LinkID,
	mapID valueobjects.MapID,
	sourceID, targetID valueobjects.NodeID,
	style LinkStyle,
	now time.Time,
) (*MindLink, error) {
	return ReconstructMindLink(id, mapID, sourceID, targetID, style, now, now)
}

// ReconstructMindLink rebuilds a link from stored data
func ReconstructMindLink(
	id valueobjects.LinkID,
	mapID valueobjects.MapID,
	sourceID, targetID valueobjects.NodeID,
	style LinkStyle,
	createdAt, updatedAt time.Time,
) (*MindLink, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("link ID is required")
	}
	if mapID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("link must belong to a mind map")
	}
	if sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("link requires source and target nodes")
	}
	if sourceID.Equals(targetID) {
		return nil, pkgerrors.NewInvalidArgumentError("a link cannot connect a node to itself")
	}

	return &MindLink{
		id:        id,
		mapID:     mapID,
		sourceID:  sourceID,
		targetID:  targetID,
		style:     style.normalized(),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (l *MindLink) ID() valueobjects.LinkID       { return l.id }
func (l *MindLink) MapID() valueobjects.MapID     { return l.mapID }
func (l *MindLink) SourceID() valueobjects.NodeID { return l.sourceID }
func (l *MindLink) TargetID() valueobjects.NodeID { return l.targetID }
func (l *MindLink) Style() LinkStyle              { return l.style }
func (l *MindLink) Label() string                 { return l.style.Label }
func (l *MindLink) LineStyle() string             { return l.style.LineStyle }
func (l *MindLink) Color() string                 { return l.style.Color }
func (l *MindLink) CreatedAt() time.Time          { return l.createdAt }
func (l *MindLink) UpdatedAt() time.Time          { return l.updatedAt }

// Touches reports whether the node is either endpoint of the link
func (l *MindLink) Touches(nodeID valueobjects.NodeID) bool {
	return l.sourceID.Equals(nodeID) || l.targetID.Equals(nodeID)
}

// Update restyles the link
func (l *MindLink) Update(style LinkStyle, now time.Time) {
	l.style = style.normalized()
	l.updatedAt = now
}

// Clone returns an independent copy of the link
func (l *MindLink) Clone() *MindLink {
	c := *l
	return &c
}
