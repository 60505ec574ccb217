package commands

import "mappamentis/pkg/utils"

// CreateMindMapCommand creates a map with its root node
type CreateMindMapCommand struct {
	MapID       string `json:"map_id" validate:"required,uuid"`
	RootNodeID  string `json:"root_node_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"max=5000"`
	RootContent string `json:"root_content" validate:"required,max=10000"`
}

func (c CreateMindMapCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateMindMapCommand replaces a map's title and description
type UpdateMindMapCommand struct {
	MapID       string `json:"map_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"max=5000"`
}

func (c UpdateMindMapCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteMindMapCommand removes a map and its timers
type DeleteMindMapCommand struct {
	MapID string `json:"map_id" validate:"required,uuid"`
}

func (c DeleteMindMapCommand) Validate() error { return utils.ValidateStruct(c) }

// AddNodeCommand places a free-standing node on a map
type AddNodeCommand struct {
	MapID   string `json:"map_id" validate:"required,uuid"`
	NodeID  string `json:"node_id" validate:"required,uuid"`
	Content string `json:"content" validate:"max=10000"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Color   string `json:"color" validate:"omitempty,hexcolor"`
}

func (c AddNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// AddChildNodeCommand adds a node linked from an existing parent
type AddChildNodeCommand struct {
	MapID     string `json:"map_id" validate:"required,uuid"`
	ParentID  string `json:"parent_id" validate:"required,uuid"`
	NodeID    string `json:"node_id" validate:"required,uuid"`
	LinkID    string `json:"link_id" validate:"required,uuid"`
	Content   string `json:"content" validate:"required,max=10000"`
	LinkLabel string `json:"link_label" validate:"max=200"`
}

func (c AddChildNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateNodeCommand edits a node; nil fields keep their current value
type UpdateNodeCommand struct {
	MapID   string  `json:"map_id" validate:"required,uuid"`
	NodeID  string  `json:"node_id" validate:"required,uuid"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=10000"`
	X       *int    `json:"x,omitempty"`
	Y       *int    `json:"y,omitempty"`
	Color   *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (c UpdateNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveNodeCommand deletes a node and its incident links
type RemoveNodeCommand struct {
	MapID  string `json:"map_id" validate:"required,uuid"`
	NodeID string `json:"node_id" validate:"required,uuid"`
}

func (c RemoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// AddLinkCommand connects two nodes
type AddLinkCommand struct {
	MapID     string `json:"map_id" validate:"required,uuid"`
	LinkID    string `json:"link_id" validate:"required,uuid"`
	SourceID  string `json:"source_id" validate:"required,uuid"`
	TargetID  string `json:"target_id" validate:"required,uuid"`
	Label     string `json:"label" validate:"max=200"`
	LineStyle string `json:"line_style" validate:"omitempty,oneof=solid dashed dotted"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
}

func (c AddLinkCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateLinkCommand restyles a link
type UpdateLinkCommand struct {
	MapID     string `json:"map_id" validate:"required,uuid"`
	LinkID    string `json:"link_id" validate:"required,uuid"`
	Label     string `json:"label" validate:"max=200"`
	LineStyle string `json:"line_style" validate:"omitempty,oneof=solid dashed dotted"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
}

func (c UpdateLinkCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveLinkCommand deletes a link
type RemoveLinkCommand struct {
	MapID  string `json:"map_id" validate:"required,uuid"`
	LinkID string `json:"link_id" validate:"required,uuid"`
}

func (c RemoveLinkCommand) Validate() error { return utils.ValidateStruct(c) }

// AddNoteCommand attaches a markdown note to a node
type AddNoteCommand struct {
	MapID   string `json:"map_id" validate:"required,uuid"`
	NodeID  string `json:"node_id" validate:"required,uuid"`
	NoteID  string `json:"note_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"max=500"`
	Content string `json:"content" validate:"max=100000"`
}

func (c AddNoteCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateNoteCommand rewrites a markdown note
type UpdateNoteCommand struct {
	MapID   string `json:"map_id" validate:"required,uuid"`
	NodeID  string `json:"node_id" validate:"required,uuid"`
	NoteID  string `json:"note_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"max=500"`
	Content string `json:"content" validate:"max=100000"`
}

func (c UpdateNoteCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveNoteCommand detaches a markdown note
type RemoveNoteCommand struct {
	MapID  string `json:"map_id" validate:"required,uuid"`
	NodeID string `json:"node_id" validate:"required,uuid"`
	NoteID string `json:"note_id" validate:"required,uuid"`
}

func (c RemoveNoteCommand) Validate() error { return utils.ValidateStruct(c) }

// CaptureIdeaCommand files a quick idea as a new node
type CaptureIdeaCommand struct {
	MapID    string `json:"map_id" validate:"required,uuid"`
	NodeID   string `json:"node_id" validate:"required,uuid"`
	Idea     string `json:"idea" validate:"required,max=10000"`
	Category string `json:"category" validate:"max=100"`
}

func (c CaptureIdeaCommand) Validate() error { return utils.ValidateStruct(c) }
