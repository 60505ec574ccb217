package dynamodb

import (
	"time"

	"mappamentis/domain/core/aggregates"
)

// Key layout of the single table
const (
	mapKeyPrefix   = "MAP#"
	timerKeyPrefix = "TIMER#"
	metadataSK     = "METADATA"

	// GSI1 lists maps (GSI1PK = MINDMAPS) and the timers of a map (GSI1PK = MAP#<id>)
	gsi1Name      = "GSI1"
	mapsPartition = "MINDMAPS"
	entityMindMap = "MindMap"
	entityTimer   = "PomodoroTimer"
)

func mapPK(id string) string   { return mapKeyPrefix + id }
func timerPK(id string) string { return timerKeyPrefix + id }

// mapItem is the stored form of a mind map; nodes and links are embedded in the item
type mapItem struct {
	PK          string     `dynamodbav:"PK"`
	SK          string     `dynamodbav:"SK"`
	GSI1PK      string     `dynamodbav:"GSI1PK"`
	GSI1SK      string     `dynamodbav:"GSI1SK"`
	EntityType  string     `dynamodbav:"EntityType"`
	MapID       string     `dynamodbav:"MapID"`
	Title       string     `dynamodbav:"Title"`
	Description string     `dynamodbav:"Description,omitempty"`
	Nodes       []nodeItem `dynamodbav:"Nodes"`
	Links       []linkItem `dynamodbav:"Links"`
	CreatedAt   time.Time  `dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time  `dynamodbav:"UpdatedAt"`
	Version     int        `dynamodbav:"Version"`
}

type nodeItem struct {
	ID        string     `dynamodbav:"ID"`
	Content   string     `dynamodbav:"Content"`
	X         int        `dynamodbav:"X"`
	Y         int        `dynamodbav:"Y"`
	Color     string     `dynamodbav:"Color"`
	Notes     []noteItem `dynamodbav:"Notes,omitempty"`
	CreatedAt time.Time  `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time  `dynamodbav:"UpdatedAt"`
}

type noteItem struct {
	ID        string    `dynamodbav:"ID"`
	Title     string    `dynamodbav:"Title"`
	Content   string    `dynamodbav:"Content"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

type linkItem struct {
	ID        string    `dynamodbav:"ID"`
	SourceID  string    `dynamodbav:"SourceID"`
	TargetID  string    `dynamodbav:"TargetID"`
	Label     string    `dynamodbav:"Label"`
	LineStyle string    `dynamodbav:"LineStyle"`
	Color     string    `dynamodbav:"Color"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

// timerItem is the stored form of a pomodoro timer
type timerItem struct {
	PK               string     `dynamodbav:"PK"`
	SK               string     `dynamodbav:"SK"`
	GSI1PK           string     `dynamodbav:"GSI1PK"`
	GSI1SK           string     `dynamodbav:"GSI1SK"`
	EntityType       string     `dynamodbav:"EntityType"`
	TimerID          string     `dynamodbav:"TimerID"`
	MapID            string     `dynamodbav:"MapID"`
	WorkMinutes      int        `dynamodbav:"WorkMinutes"`
	BreakMinutes     int        `dynamodbav:"BreakMinutes"`
	SessionCount     int        `dynamodbav:"SessionCount"`
	State            string     `dynamodbav:"State"`
	StartedAt        *time.Time `dynamodbav:"StartedAt,omitempty"`
	PausedAt         *time.Time `dynamodbav:"PausedAt,omitempty"`
	RemainingSeconds *float64   `dynamodbav:"RemainingSeconds,omitempty"`
	CreatedAt        time.Time  `dynamodbav:"CreatedAt"`
	UpdatedAt        time.Time  `dynamodbav:"UpdatedAt"`
	Version          int        `dynamodbav:"Version"`
}

func newMapItem(snap aggregates.MindMapSnapshot) mapItem {
	item := mapItem{
		PK:          mapPK(snap.ID),
		SK:          metadataSK,
		GSI1PK:      mapsPartition,
		GSI1SK:      mapPK(snap.ID),
		EntityType:  entityMindMap,
		MapID:       snap.ID,
		Title:       snap.Title,
		Description: snap.Description,
		Nodes:       make([]nodeItem, 0, len(snap.Nodes)),
		Links:       make([]linkItem, 0, len(snap.Links)),
		CreatedAt:   snap.CreatedAt,
		UpdatedAt:   snap.UpdatedAt,
		Version:     snap.Version,
	}

	for _, n := range snap.Nodes {
		ni := nodeItem{
			ID:        n.ID,
			Content:   n.Content,
			X:         n.X,
			Y:         n.Y,
			Color:     n.Color,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
		for _, note := range n.Notes {
			ni.Notes = append(ni.Notes, noteItem(note))
		}
		item.Nodes = append(item.Nodes, ni)
	}

	for _, l := range snap.Links {
		item.Links = append(item.Links, linkItem(l))
	}

	return item
}

func (i mapItem) snapshot() aggregates.MindMapSnapshot {
	snap := aggregates.MindMapSnapshot{
		ID:          i.MapID,
		Title:       i.Title,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		Version:     i.Version,
		Nodes:       make([]aggregates.NodeSnapshot, 0, len(i.Nodes)),
		Links:       make([]aggregates.LinkSnapshot, 0, len(i.Links)),
	}

	for _, n := range i.Nodes {
		ns := aggregates.NodeSnapshot{
			ID:        n.ID,
			Content:   n.Content,
			X:         n.X,
			Y:         n.Y,
			Color:     n.Color,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
		for _, note := range n.Notes {
			ns.Notes = append(ns.Notes, aggregates.NoteSnapshot(note))
		}
		snap.Nodes = append(snap.Nodes, ns)
	}

	for _, l := range i.Links {
		snap.Links = append(snap.Links, aggregates.LinkSnapshot(l))
	}

	return snap
}

func newTimerItem(snap aggregates.TimerSnapshot) timerItem {
	item := timerItem{
		PK:           timerPK(snap.ID),
		SK:           metadataSK,
		GSI1PK:       mapPK(snap.MapID),
		GSI1SK:       timerPK(snap.ID),
		EntityType:   entityTimer,
		TimerID:      snap.ID,
		MapID:        snap.MapID,
		WorkMinutes:  snap.WorkMinutes,
		BreakMinutes: snap.BreakMinutes,
		SessionCount: snap.SessionCount,
		State:        snap.State,
		StartedAt:    snap.StartedAt,
		PausedAt:     snap.PausedAt,
		CreatedAt:    snap.CreatedAt,
		UpdatedAt:    snap.UpdatedAt,
		Version:      snap.Version,
	}
	if snap.Remaining != nil {
		secs := snap.Remaining.Seconds()
		item.RemainingSeconds = &secs
	}
	return item
}

func (i timerItem) snapshot() aggregates.TimerSnapshot {
	snap := aggregates.TimerSnapshot{
		ID:           i.TimerID,
		MapID:        i.MapID,
		WorkMinutes:  i.WorkMinutes,
		BreakMinutes: i.BreakMinutes,
		SessionCount: i.SessionCount,
		State:        i.State,
		StartedAt:    i.StartedAt,
		PausedAt:     i.PausedAt,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
		Version:      i.Version,
	}
	if i.RemainingSeconds != nil {
		d := time.Duration(*i.RemainingSeconds * float64(time.Second))
		snap.Remaining = &d
	}
	return snap
}
