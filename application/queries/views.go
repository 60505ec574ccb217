package queries

import (
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/entities"
	"mappamentis/pkg/utils"
)

// MindMapView is the read model of a full map
type MindMapView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Version     int        `json:"version"`
	Nodes       []NodeView `json:"nodes"`
	Links       []LinkView `json:"links"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// MindMapSummary is the list entry of a map
type MindMapSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	NodeCount   int    `json:"nodeCount"`
	LinkCount   int    `json:"linkCount"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// MindMapList is a page of map summaries
type MindMapList struct {
	Items []MindMapSummary `json:"items"`
	Total int              `json:"total"`
}

// NodeView is the read model of a node
type NodeView struct {
	ID        string     `json:"id"`
	MapID     string     `json:"mapId"`
	Content   string     `json:"content"`
	Position  Position   `json:"position"`
	Color     string     `json:"color"`
	Notes     []NoteView `json:"notes"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

// Position represents canvas coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LinkView is the read model of a link
type LinkView struct {
	ID        string `json:"id"`
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	Label     string `json:"label"`
	LineStyle string `json:"lineStyle"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NoteView is the read model of a markdown note
type NoteView struct {
	ID        string `json:"id"`
	NodeID    string `json:"nodeId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TimerView is the read model of a pomodoro timer
type TimerView struct {
	ID               string  `json:"id"`
	MapID            string  `json:"mapId"`
	State            string  `json:"state"`
	WorkMinutes      int     `json:"workMinutes"`
	BreakMinutes     int     `json:"breakMinutes"`
	SessionCount     int     `json:"sessionCount"`
	StartedAt        *string `json:"startedAt,omitempty"`
	PausedAt         *string `json:"pausedAt,omitempty"`
	ElapsedSeconds   int64   `json:"elapsedSeconds"`
	RemainingSeconds int64   `json:"remainingSeconds"`
	Version          int     `json:"version"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// NewMindMapView builds the read model of a map
func NewMindMapView(m *aggregates.MindMap) MindMapView {
	nodes := m.Nodes()
	links := m.Links()

	view := MindMapView{
		ID:          m.ID().String(),
		Title:       m.Title().String(),
		Description: m.Description(),
		Version:     m.Version(),
		Nodes:       make([]NodeView, 0, len(nodes)),
		Links:       make([]LinkView, 0, len(links)),
		CreatedAt:   utils.FormatTime(m.CreatedAt()),
		UpdatedAt:   utils.FormatTime(m.UpdatedAt()),
	}
	for _, n := range nodes {
		view.Nodes = append(view.Nodes, NewNodeView(n))
	}
	for _, l := range links {
		view.Links = append(view.Links, NewLinkView(l))
	}
	return view
}

// NewMindMapSummary builds the list entry of a map
func NewMindMapSummary(m *aggregates.MindMap) MindMapSummary {
	return MindMapSummary{
		ID:          m.ID().String(),
		Title:       m.Title().String(),
		Description: m.Description(),
		NodeCount:   m.NodeCount(),
		LinkCount:   m.LinkCount(),
		CreatedAt:   utils.FormatTime(m.CreatedAt()),
		UpdatedAt:   utils.FormatTime(m.UpdatedAt()),
	}
}

// NewNodeView builds the read model of a node
func NewNodeView(n *entities.MindNode) NodeView {
	notes := n.Notes()
	view := NodeView{
		ID:        n.ID().String(),
		MapID:     n.MapID().String(),
		Content:   n.Content(),
		Position:  Position{X: n.Position().X(), Y: n.Position().Y()},
		Color:     n.Color(),
		Notes:     make([]NoteView, 0, len(notes)),
		CreatedAt: utils.FormatTime(n.CreatedAt()),
		UpdatedAt: utils.FormatTime(n.UpdatedAt()),
	}
	for _, note := range notes {
		view.Notes = append(view.Notes, NewNoteView(note))
	}
	return view
}

// NewNodeViews builds read models for a slice of nodes
func NewNodeViews(nodes []*entities.MindNode) []NodeView {
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, NewNodeView(n))
	}
	return views
}

// NewLinkView builds the read model of a link
func NewLinkView(l *entities.MindLink) LinkView {
	return LinkView{
		ID:        l.ID().String(),
		SourceID:  l.SourceID().String(),
		TargetID:  l.TargetID().String(),
		Label:     l.Label(),
		LineStyle: l.LineStyle(),
		Color:     l.Color(),
		CreatedAt: utils.FormatTime(l.CreatedAt()),
		UpdatedAt: utils.FormatTime(l.UpdatedAt()),
	}
}

// NewNoteView builds the read model of a markdown note
func NewNoteView(n *entities.MarkdownNote) NoteView {
	return NoteView{
		ID:        n.ID().String(),
		NodeID:    n.NodeID().String(),
		Title:     n.Title(),
		Content:   n.Content(),
		CreatedAt: utils.FormatTime(n.CreatedAt()),
		UpdatedAt: utils.FormatTime(n.UpdatedAt()),
	}
}

// NewTimerView builds the read model of a timer
func NewTimerView(t *aggregates.PomodoroTimer) TimerView {
	return TimerView{
		ID:               t.ID().String(),
		MapID:            t.MapID().String(),
		State:            t.State().String(),
		WorkMinutes:      t.WorkMinutes(),
		BreakMinutes:     t.BreakMinutes(),
		SessionCount:     t.SessionCount(),
		StartedAt:        utils.FormatTimePtr(t.StartedAt()),
		PausedAt:         utils.FormatTimePtr(t.PausedAt()),
		ElapsedSeconds:   int64(t.Elapsed().Seconds()),
		RemainingSeconds: int64(t.TimeLeft().Seconds()),
		Version:          t.Version(),
		CreatedAt:        utils.FormatTime(t.CreatedAt()),
		UpdatedAt:        utils.FormatTime(t.UpdatedAt()),
	}
}
