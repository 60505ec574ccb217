package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"mappamentis/application/commands"
	"mappamentis/application/queries"
	querybus "mappamentis/application/queries/bus"
	"mappamentis/pkg/common"
)

// MapHandler serves mind maps and everything inside them
type MapHandler struct {
	base
}

// NewMapHandler creates a new map handler
func NewMapHandler(d Deps) *MapHandler {
	return &MapHandler{base: newBase(d)}
}

// CreateMapRequest is the body of POST /maps
type CreateMapRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RootContent string `json:"rootContent"`
}

// UpdateMapRequest is the body of PUT /maps/{mapID}
type UpdateMapRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AddNodeRequest is the body of POST /maps/{mapID}/nodes
type AddNodeRequest struct {
	Content string `json:"content"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Color   string `json:"color,omitempty"`
}

// UpdateNodeRequest is the body of PUT /maps/{mapID}/nodes/{nodeID}; absent fields are kept
type UpdateNodeRequest struct {
	Content *string `json:"content,omitempty"`
	X       *int    `json:"x,omitempty"`
	Y       *int    `json:"y,omitempty"`
	Color   *string `json:"color,omitempty"`
}

// AddChildRequest is the body of POST /maps/{mapID}/nodes/{nodeID}/children
type AddChildRequest struct {
	Content   string `json:"content"`
	LinkLabel string `json:"linkLabel,omitempty"`
}

// CaptureIdeaRequest is the body of POST /maps/{mapID}/ideas
type CaptureIdeaRequest struct {
	Idea     string `json:"idea"`
	Category string `json:"category,omitempty"`
}

// AddLinkRequest is the body of POST /maps/{mapID}/links
type AddLinkRequest struct {
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	Label     string `json:"label,omitempty"`
	LineStyle string `json:"lineStyle,omitempty"`
	Color     string `json:"color,omitempty"`
}

// UpdateLinkRequest is the body of PUT /maps/{mapID}/links/{linkID}
type UpdateLinkRequest struct {
	Label     string `json:"label"`
	LineStyle string `json:"lineStyle,omitempty"`
	Color     string `json:"color,omitempty"`
}

// NoteRequest is the body of note creation and update
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateMap handles POST /maps
func (h *MapHandler) CreateMap(w http.ResponseWriter, r *http.Request) {
	var req CreateMapRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID := uuid.NewString()
	cmd := commands.CreateMindMapCommand{
		MapID:       mapID,
		RootNodeID:  uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		RootContent: req.RootContent,
	}
	execute[queries.MindMapView](h.base, w, r, http.StatusCreated, cmd, queries.GetMindMapQuery{MapID: mapID})
}

// ListMaps handles GET /maps?page=&page_size=
func (h *MapHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	page := common.ExtractPaginationParams(r)

	q := queries.ListMindMapsQuery{Limit: page.PageSize, Offset: page.Offset()}
	list, err := querybus.AskAs[queries.MindMapList](r.Context(), h.queryBus, q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondWithMeta(w, http.StatusOK, list.Items, &common.MetaInfo{
		Pagination: common.BuildPaginationMeta(page.Page, page.PageSize, list.Total),
	})
}

// GetMap handles GET /maps/{mapID}
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	ask[queries.MindMapView](h.base, w, r, http.StatusOK, queries.GetMindMapQuery{MapID: param(r, "mapID")})
}

// UpdateMap handles PUT /maps/{mapID}
func (h *MapHandler) UpdateMap(w http.ResponseWriter, r *http.Request) {
	var req UpdateMapRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID := param(r, "mapID")
	cmd := commands.UpdateMindMapCommand{MapID: mapID, Title: req.Title, Description: req.Description}
	execute[queries.MindMapView](h.base, w, r, http.StatusOK, cmd, queries.GetMindMapQuery{MapID: mapID})
}

// DeleteMap handles DELETE /maps/{mapID}
func (h *MapHandler) DeleteMap(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteMindMapCommand{MapID: param(r, "mapID")})
}

// AddNode handles POST /maps/{mapID}/nodes
func (h *MapHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req AddNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID, nodeID := param(r, "mapID"), uuid.NewString()
	cmd := commands.AddNodeCommand{
		MapID:   mapID,
		NodeID:  nodeID,
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
		Color:   req.Color,
	}
	execute[queries.NodeView](h.base, w, r, http.StatusCreated, cmd, queries.GetNodeQuery{MapID: mapID, NodeID: nodeID})
}

// GetNode handles GET /maps/{mapID}/nodes/{nodeID}
func (h *MapHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	q := queries.GetNodeQuery{MapID: param(r, "mapID"), NodeID: param(r, "nodeID")}
	ask[queries.NodeView](h.base, w, r, http.StatusOK, q)
}

// UpdateNode handles PUT /maps/{mapID}/nodes/{nodeID}
func (h *MapHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req UpdateNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID, nodeID := param(r, "mapID"), param(r, "nodeID")
	cmd := commands.UpdateNodeCommand{
		MapID:   mapID,
		NodeID:  nodeID,
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
		Color:   req.Color,
	}
	execute[queries.NodeView](h.base, w, r, http.StatusOK, cmd, queries.GetNodeQuery{MapID: mapID, NodeID: nodeID})
}

// RemoveNode handles DELETE /maps/{mapID}/nodes/{nodeID}
func (h *MapHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveNodeCommand{MapID: param(r, "mapID"), NodeID: param(r, "nodeID")})
}

// AddChild handles POST /maps/{mapID}/nodes/{nodeID}/children
func (h *MapHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	var req AddChildRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID, childID := param(r, "mapID"), uuid.NewString()
	cmd := commands.AddChildNodeCommand{
		MapID:     mapID,
		ParentID:  param(r, "nodeID"),
		NodeID:    childID,
		LinkID:    uuid.NewString(),
		Content:   req.Content,
		LinkLabel: req.LinkLabel,
	}
	execute[queries.NodeView](h.base, w, r, http.StatusCreated, cmd, queries.GetNodeQuery{MapID: mapID, NodeID: childID})
}

// GetChildren handles GET /maps/{mapID}/nodes/{nodeID}/children
func (h *MapHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	q := queries.GetChildNodesQuery{MapID: param(r, "mapID"), ParentID: param(r, "nodeID")}
	ask[[]queries.NodeView](h.base, w, r, http.StatusOK, q)
}

// SearchNodes handles GET /maps/{mapID}/nodes/search?q=
func (h *MapHandler) SearchNodes(w http.ResponseWriter, r *http.Request) {
	q := queries.SearchNodesQuery{MapID: param(r, "mapID"), Keyword: r.URL.Query().Get("q")}
	ask[[]queries.NodeView](h.base, w, r, http.StatusOK, q)
}

// CaptureIdea handles POST /maps/{mapID}/ideas
func (h *MapHandler) CaptureIdea(w http.ResponseWriter, r *http.Request) {
	var req CaptureIdeaRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID, nodeID := param(r, "mapID"), uuid.NewString()
	cmd := commands.CaptureIdeaCommand{MapID: mapID, NodeID: nodeID, Idea: req.Idea, Category: req.Category}
	execute[queries.NodeView](h.base, w, r, http.StatusCreated, cmd, queries.GetNodeQuery{MapID: mapID, NodeID: nodeID})
}

// AddLink handles POST /maps/{mapID}/links
func (h *MapHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req AddLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID := param(r, "mapID")
	cmd := commands.AddLinkCommand{
		MapID:     mapID,
		LinkID:    uuid.NewString(),
		SourceID:  req.SourceID,
		TargetID:  req.TargetID,
		Label:     req.Label,
		LineStyle: req.LineStyle,
		Color:     req.Color,
	}
	execute[queries.MindMapView](h.base, w, r, http.StatusCreated, cmd, queries.GetMindMapQuery{MapID: mapID})
}

// UpdateLink handles PUT /maps/{mapID}/links/{linkID}
func (h *MapHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var req UpdateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID := param(r, "mapID")
	cmd := commands.UpdateLinkCommand{
		MapID:     mapID,
		LinkID:    param(r, "linkID"),
		Label:     req.Label,
		LineStyle: req.LineStyle,
		Color:     req.Color,
	}
	execute[queries.MindMapView](h.base, w, r, http.StatusOK, cmd, queries.GetMindMapQuery{MapID: mapID})
}

// RemoveLink handles DELETE /maps/{mapID}/links/{linkID}
func (h *MapHandler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveLinkCommand{MapID: param(r, "mapID"), LinkID: param(r, "linkID")})
}

// AddNote handles POST /maps/{mapID}/nodes/{nodeID}/notes
func (h *MapHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID, nodeID := param(r, "mapID"), param(r, "nodeID")
	cmd := commands.AddNoteCommand{
		MapID:   mapID,
		NodeID:  nodeID,
		NoteID:  uuid.NewString(),
		Title:   req.Title,
		Content: req.Content,
	}
	execute[queries.NodeView](h.base, w, r, http.StatusCreated, cmd, queries.GetNodeQuery{MapID: mapID, NodeID: nodeID})
}

// UpdateNote handles PUT /maps/{mapID}/nodes/{nodeID}/notes/{noteID}
func (h *MapHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	mapID, nodeID := param(r, "mapID"), param(r, "nodeID")
	cmd := commands.UpdateNoteCommand{
		MapID:   mapID,
		NodeID:  nodeID,
		NoteID:  param(r, "noteID"),
		Title:   req.Title,
		Content: req.Content,
	}
	execute[queries.NodeView](h.base, w, r, http.StatusOK, cmd, queries.GetNodeQuery{MapID: mapID, NodeID: nodeID})
}

// RemoveNote handles DELETE /maps/{mapID}/nodes/{nodeID}/notes/{noteID}
func (h *MapHandler) RemoveNote(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveNoteCommand{
		MapID:  param(r, "mapID"),
		NodeID: param(r, "nodeID"),
		NoteID: param(r, "noteID"),
	})
}
