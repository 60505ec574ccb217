package aggregates

import (
	"time"

	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
	pkgerrors "mappamentis/pkg/errors"
)

// Snapshots are plain-data copies of aggregate state used by repositories.

// MindMapSnapshot is the persisted form of a MindMap
type MindMapSnapshot struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
	Nodes       []NodeSnapshot
	Links       []LinkSnapshot
}

// NodeSnapshot is the persisted form of a MindNode
type NodeSnapshot struct {
	ID        string
	Content   string
	X         int
	Y         int
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Notes     []NoteSnapshot
}

// NoteSnapshot is the persisted form of a MarkdownNote
type NoteSnapshot struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LinkSnapshot is the persisted form of a MindLink
type LinkSnapshot struct {
	ID        string
	SourceID  string
	TargetID  string
	Label     string
	LineStyle string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimerSnapshot is the persisted form of a PomodoroTimer
type TimerSnapshot struct {
	ID           string
	MapID        string
	WorkMinutes  int
	BreakMinutes int
	SessionCount int
	State        string
	StartedAt    *time.Time
	PausedAt     *time.Time
	Remaining    *time.Duration
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int
}

// Snapshot captures the map's current state
func (m *MindMap) Snapshot() MindMapSnapshot {
	snap := MindMapSnapshot{
		ID:          m.id.String(),
		Title:       m.title.String(),
		Description: m.description,
		CreatedAt:   m.createdAt,
		UpdatedAt:   m.updatedAt,
		Version:     m.version,
		Nodes:       make([]NodeSnapshot, 0, len(m.nodeOrder)),
		Links:       make([]LinkSnapshot, 0, len(m.linkOrder)),
	}

	for _, id := range m.nodeOrder {
		node := m.nodes[id]
		ns := NodeSnapshot{
			ID:        node.ID().String(),
			Content:   node.Content(),
			X:         node.Position().X(),
			Y:         node.Position().Y(),
			Color:     node.Color(),
			CreatedAt: node.CreatedAt(),
			UpdatedAt: node.UpdatedAt(),
		}
		for _, note := range node.Notes() {
			ns.Notes = append(ns.Notes, NoteSnapshot{
				ID:        note.ID().String(),
				Title:     note.Title(),
				Content:   note.Content(),
				CreatedAt: note.CreatedAt(),
				UpdatedAt: note.UpdatedAt(),
			})
		}
		snap.Nodes = append(snap.Nodes, ns)
	}

	for _, id := range m.linkOrder {
		link := m.links[id]
		snap.Links = append(snap.Links, LinkSnapshot{
			ID:        link.ID().String(),
			SourceID:  link.SourceID().String(),
			TargetID:  link.TargetID().String(),
			Label:     link.Label(),
			LineStyle: link.LineStyle(),
			Color:     link.Color(),
			CreatedAt: link.CreatedAt(),
			UpdatedAt: link.UpdatedAt(),
		})
	}

	return snap
}

// RehydrateMindMap rebuilds a map from a snapshot without recording events
func RehydrateMindMap(snap MindMapSnapshot, opts ...Option) (*MindMap, error) {
	id, err := valueobjects.ParseMapID(snap.ID)
	if err != nil {
		return nil, err
	}
	title, err := valueobjects.NewTitle(snap.Title)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	m := newMindMap(id, title, snap.Description, snap.CreatedAt, snap.UpdatedAt, snap.Version, o.clock)

	for _, ns := range snap.Nodes {
		node, err := rehydrateNode(id, ns)
		if err != nil {
			return nil, err
		}
		if err := m.insertNode(node); err != nil {
			return nil, err
		}
	}

	for _, ls := range snap.Links {
		link, err := rehydrateLink(id, ls)
		if err != nil {
			return nil, err
		}
		if err := m.insertLink(link); err != nil {
			return nil, err
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.persistedVersion = snap.Version

	return m, nil
}

func rehydrateNode(mapID valueobjects.MapID, ns NodeSnapshot) (*entities.MindNode, error) {
	nodeID, err := valueobjects.ParseNodeID(ns.ID)
	if err != nil {
		return nil, err
	}

	notes := make([]*entities.MarkdownNote, 0, len(ns.Notes))
	for _, s := range ns.Notes {
		noteID, err := valueobjects.ParseNoteID(s.ID)
		if err != nil {
			return nil, err
		}
		note, err := entities.ReconstructMarkdownNote(noteID, nodeID, s.Title, s.Content, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return entities.ReconstructMindNode(nodeID, mapID, ns.Content, valueobjects.NewPosition(ns.X, ns.Y),
		ns.Color, ns.CreatedAt, ns.UpdatedAt, notes)
}

func rehydrateLink(mapID valueobjects.MapID, ls LinkSnapshot) (*entities.MindLink, error) {
	linkID, err := valueobjects.ParseLinkID(ls.ID)
	if err != nil {
		return nil, err
	}
	sourceID, err := valueobjects.ParseNodeID(ls.SourceID)
	if err != nil {
		return nil, err
	}
	targetID, err := valueobjects.ParseNodeID(ls.TargetID)
	if err != nil {
		return nil, err
	}

	style := entities.LinkStyle{Label: ls.Label, LineStyle: ls.LineStyle, Color: ls.Color}
	return entities.ReconstructMindLink(linkID, mapID, sourceID, targetID, style, ls.CreatedAt, ls.UpdatedAt)
}

// Snapshot captures the timer's current state
func (t *PomodoroTimer) Snapshot() TimerSnapshot {
	return TimerSnapshot{
		ID:           t.id.String(),
		MapID:        t.mapID.String(),
		WorkMinutes:  t.workMinutes,
		BreakMinutes: t.breakMinutes,
		SessionCount: t.sessionCount,
		State:        t.state.String(),
		StartedAt:    t.StartedAt(),
		PausedAt:     t.PausedAt(),
		Remaining:    t.Remaining(),
		CreatedAt:    t.createdAt,
		UpdatedAt:    t.updatedAt,
		Version:      t.version,
	}
}

// RehydratePomodoroTimer rebuilds a timer from a snapshot without recording events
func RehydratePomodoroTimer(snap TimerSnapshot, opts ...Option) (*PomodoroTimer, error) {
	id, err := valueobjects.ParseTimerID(snap.ID)
	if err != nil {
		return nil, err
	}
	mapID, err := valueobjects.ParseMapID(snap.MapID)
	if err != nil {
		return nil, err
	}
	if err := validateDurations(snap.WorkMinutes, snap.BreakMinutes); err != nil {
		return nil, err
	}
	if snap.SessionCount < 0 {
		return nil, pkgerrors.NewInvalidArgumentError("session count cannot be negative")
	}
	state, err := ParseTimerState(snap.State)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	t := &PomodoroTimer{
		id:           id,
		mapID:        mapID,
		workMinutes:  snap.WorkMinutes,
		breakMinutes: snap.BreakMinutes,
		sessionCount: snap.SessionCount,
		state:        state,
		startedAt:    copyTime(snap.StartedAt),
		pausedAt:     copyTime(snap.PausedAt),
		createdAt:    snap.CreatedAt,
		updatedAt:    snap.UpdatedAt,
		version:      snap.Version,
		clock:        o.clock,
		events:       []events.DomainEvent{},

		persistedVersion: snap.Version,
	}
	if snap.Remaining != nil {
		d := *snap.Remaining
		t.remaining = &d
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
