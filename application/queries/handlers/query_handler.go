package handlers

import (
	"context"

	"mappamentis/application/queries"
	"mappamentis/application/queries/bus"
	"mappamentis/application/services"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// QueryHandler answers read queries from the application services
type QueryHandler struct {
	maps   *services.MindMapService
	timers *services.PomodoroService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(maps *services.MindMapService, timers *services.PomodoroService) *QueryHandler {
	return &QueryHandler{maps: maps, timers: timers}
}

// Register binds every query to the bus
func (h *QueryHandler) Register(b *bus.QueryBus) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetMindMapQuery{}, bus.HandlerFor(h.GetMindMap)},
		{queries.ListMindMapsQuery{}, bus.HandlerFor(h.ListMindMaps)},
		{queries.GetNodeQuery{}, bus.HandlerFor(h.GetNode)},
		{queries.SearchNodesQuery{}, bus.HandlerFor(h.SearchNodes)},
		{queries.GetChildNodesQuery{}, bus.HandlerFor(h.GetChildNodes)},
		{queries.GetTimerQuery{}, bus.HandlerFor(h.GetTimer)},
		{queries.ListTimersQuery{}, bus.HandlerFor(h.ListTimers)},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// GetMindMap handles GetMindMapQuery
func (h *QueryHandler) GetMindMap(ctx context.Context, q queries.GetMindMapQuery) (queries.MindMapView, error) {
	mapID, err := valueobjects.ParseMapID(q.MapID)
	if err != nil {
		return queries.MindMapView{}, err
	}
	m, err := h.maps.GetMindMap(ctx, mapID)
	if err != nil {
		return queries.MindMapView{}, err
	}
	return queries.NewMindMapView(m), nil
}

// ListMindMaps handles ListMindMapsQuery
func (h *QueryHandler) ListMindMaps(ctx context.Context, q queries.ListMindMapsQuery) (queries.MindMapList, error) {
	maps, err := h.maps.ListMindMaps(ctx)
	if err != nil {
		return queries.MindMapList{}, err
	}

	result := queries.MindMapList{Items: []queries.MindMapSummary{}, Total: len(maps)}
	if q.Offset >= len(maps) {
		return result, nil
	}
	page := maps[q.Offset:]
	if q.Limit > 0 && q.Limit < len(page) {
		page = page[:q.Limit]
	}
	for _, m := range page {
		result.Items = append(result.Items, queries.NewMindMapSummary(m))
	}
	return result, nil
}

// GetNode handles GetNodeQuery
func (h *QueryHandler) GetNode(ctx context.Context, q queries.GetNodeQuery) (queries.NodeView, error) {
	mapID, err := valueobjects.ParseMapID(q.MapID)
	if err != nil {
		return queries.NodeView{}, err
	}
	nodeID, err := valueobjects.ParseNodeID(q.NodeID)
	if err != nil {
		return queries.NodeView{}, err
	}

	m, err := h.maps.GetMindMap(ctx, mapID)
	if err != nil {
		return queries.NodeView{}, err
	}
	node, ok := m.Node(nodeID)
	if !ok {
		return queries.NodeView{}, pkgerrors.NewNotFoundError("node")
	}
	return queries.NewNodeView(node), nil
}

// SearchNodes handles SearchNodesQuery
func (h *QueryHandler) SearchNodes(ctx context.Context, q queries.SearchNodesQuery) ([]queries.NodeView, error) {
	mapID, err := valueobjects.ParseMapID(q.MapID)
	if err != nil {
		return nil, err
	}
	nodes, err := h.maps.SearchNodesByContent(ctx, mapID, q.Keyword)
	if err != nil {
		return nil, err
	}
	return queries.NewNodeViews(nodes), nil
}

// GetChildNodes handles GetChildNodesQuery
func (h *QueryHandler) GetChildNodes(ctx context.Context, q queries.GetChildNodesQuery) ([]queries.NodeView, error) {
	mapID, err := valueobjects.ParseMapID(q.MapID)
	if err != nil {
		return nil, err
	}
	parentID, err := valueobjects.ParseNodeID(q.ParentID)
	if err != nil {
		return nil, err
	}
	nodes, err := h.maps.GetChildNodes(ctx, mapID, parentID)
	if err != nil {
		return nil, err
	}
	return queries.NewNodeViews(nodes), nil
}

// GetTimer handles GetTimerQuery
func (h *QueryHandler) GetTimer(ctx context.Context, q queries.GetTimerQuery) (queries.TimerView, error) {
	timerID, err := valueobjects.ParseTimerID(q.TimerID)
	if err != nil {
		return queries.TimerView{}, err
	}
	timer, err := h.timers.GetTimer(ctx, timerID)
	if err != nil {
		return queries.TimerView{}, err
	}
	return queries.NewTimerView(timer), nil
}

// ListTimers handles ListTimersQuery
func (h *QueryHandler) ListTimers(ctx context.Context, q queries.ListTimersQuery) ([]queries.TimerView, error) {
	mapID, err := valueobjects.ParseMapID(q.MapID)
	if err != nil {
		return nil, err
	}
	timers, err := h.timers.ListTimersForMap(ctx, mapID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.TimerView, 0, len(timers))
	for _, t := range timers {
		views = append(views, queries.NewTimerView(t))
	}
	return views, nil
}
