package handlers

import (
	"context"

	"go.uber.org/zap"

	"mappamentis/application/commands"
	"mappamentis/application/commands/bus"
	"mappamentis/application/services"
	"mappamentis/domain/config"
	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
)

// MindMapCommandHandler turns mind map commands into service calls
type MindMapCommandHandler struct {
	service *services.MindMapService
	config  *config.DomainConfig
	logger  *zap.Logger
}

// NewMindMapCommandHandler creates a new mind map command handler
func NewMindMapCommandHandler(service *services.MindMapService, cfg *config.DomainConfig, logger *zap.Logger) *MindMapCommandHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &MindMapCommandHandler{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// Register binds every mind map command to the bus
func (h *MindMapCommandHandler) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateMindMapCommand{}, bus.HandlerFor(h.CreateMindMap)},
		{commands.UpdateMindMapCommand{}, bus.HandlerFor(h.UpdateMindMap)},
		{commands.DeleteMindMapCommand{}, bus.HandlerFor(h.DeleteMindMap)},
		{commands.AddNodeCommand{}, bus.HandlerFor(h.AddNode)},
		{commands.AddChildNodeCommand{}, bus.HandlerFor(h.AddChildNode)},
		{commands.UpdateNodeCommand{}, bus.HandlerFor(h.UpdateNode)},
		{commands.RemoveNodeCommand{}, bus.HandlerFor(h.RemoveNode)},
		{commands.AddLinkCommand{}, bus.HandlerFor(h.AddLink)},
		{commands.UpdateLinkCommand{}, bus.HandlerFor(h.UpdateLink)},
		{commands.RemoveLinkCommand{}, bus.HandlerFor(h.RemoveLink)},
		{commands.AddNoteCommand{}, bus.HandlerFor(h.AddNote)},
		{commands.UpdateNoteCommand{}, bus.HandlerFor(h.UpdateNote)},
		{commands.RemoveNoteCommand{}, bus.HandlerFor(h.RemoveNote)},
		{commands.CaptureIdeaCommand{}, bus.HandlerFor(h.CaptureIdea)},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// CreateMindMap handles CreateMindMapCommand
func (h *MindMapCommandHandler) CreateMindMap(ctx context.Context, cmd commands.CreateMindMapCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	rootID, err := valueobjects.ParseNodeID(cmd.RootNodeID)
	if err != nil {
		return err
	}
	title, err := valueobjects.NewTitleWithConfig(cmd.Title, h.config)
	if err != nil {
		return err
	}

	_, err = h.service.CreateMindMap(ctx, mapID, rootID, title, cmd.Description, cmd.RootContent)
	return err
}

// UpdateMindMap handles UpdateMindMapCommand
func (h *MindMapCommandHandler) UpdateMindMap(ctx context.Context, cmd commands.UpdateMindMapCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	title, err := valueobjects.NewTitleWithConfig(cmd.Title, h.config)
	if err != nil {
		return err
	}

	_, err = h.service.UpdateMindMap(ctx, mapID, title, cmd.Description)
	return err
}

// DeleteMindMap handles DeleteMindMapCommand
func (h *MindMapCommandHandler) DeleteMindMap(ctx context.Context, cmd commands.DeleteMindMapCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	return h.service.DeleteMindMap(ctx, mapID)
}

// AddNode handles AddNodeCommand
func (h *MindMapCommandHandler) AddNode(ctx context.Context, cmd commands.AddNodeCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	nodeID, err := valueobjects.ParseNodeID(cmd.NodeID)
	if err != nil {
		return err
	}

	_, err = h.service.AddNode(ctx, mapID, nodeID, cmd.Content, valueobjects.NewPosition(cmd.X, cmd.Y), cmd.Color)
	return err
}

// AddChildNode handles AddChildNodeCommand
func (h *MindMapCommandHandler) AddChildNode(ctx context.Context, cmd commands.AddChildNodeCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	parentID, err := valueobjects.ParseNodeID(cmd.ParentID)
	if err != nil {
		return err
	}
	nodeID, err := valueobjects.ParseNodeID(cmd.NodeID)
	if err != nil {
		return err
	}
	linkID, err := valueobjects.ParseLinkID(cmd.LinkID)
	if err != nil {
		return err
	}

	_, err = h.service.AddChildNode(ctx, mapID, parentID, nodeID, linkID, cmd.Content, cmd.LinkLabel)
	return err
}

// UpdateNode handles UpdateNodeCommand; absent fields keep their stored value
func (h *MindMapCommandHandler) UpdateNode(ctx context.Context, cmd commands.UpdateNodeCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	nodeID, err := valueobjects.ParseNodeID(cmd.NodeID)
	if err != nil {
		return err
	}

	_, err = h.service.UpdateNode(ctx, mapID, nodeID, services.NodeChanges{
		Content: cmd.Content,
		X:       cmd.X,
		Y:       cmd.Y,
		Color:   cmd.Color,
	})
	return err
}

// RemoveNode handles RemoveNodeCommand
func (h *MindMapCommandHandler) RemoveNode(ctx context.Context, cmd commands.RemoveNodeCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	nodeID, err := valueobjects.ParseNodeID(cmd.NodeID)
	if err != nil {
		return err
	}
	return h.service.RemoveNode(ctx, mapID, nodeID)
}

// AddLink handles AddLinkCommand
func (h *MindMapCommandHandler) AddLink(ctx context.Context, cmd commands.AddLinkCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	linkID, err := valueobjects.ParseLinkID(cmd.LinkID)
	if err != nil {
		return err
	}
	sourceID, err := valueobjects.ParseNodeID(cmd.SourceID)
	if err != nil {
		return err
	}
	targetID, err := valueobjects.ParseNodeID(cmd.TargetID)
	if err != nil {
		return err
	}

	style := entities.LinkStyle{Label: cmd.Label, LineStyle: cmd.LineStyle, Color: cmd.Color}
	_, err = h.service.AddLink(ctx, mapID, linkID, sourceID, targetID, style)
	return err
}

// UpdateLink handles UpdateLinkCommand
func (h *MindMapCommandHandler) UpdateLink(ctx context.Context, cmd commands.UpdateLinkCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	linkID, err := valueobjects.ParseLinkID(cmd.LinkID)
	if err != nil {
		return err
	}

	style := entities.LinkStyle{Label: cmd.Label, LineStyle: cmd.LineStyle, Color: cmd.Color}
	_, err = h.service.UpdateLink(ctx, mapID, linkID, style)
	return err
}

// RemoveLink handles RemoveLinkCommand
func (h *MindMapCommandHandler) RemoveLink(ctx context.Context, cmd commands.RemoveLinkCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	linkID, err := valueobjects.ParseLinkID(cmd.LinkID)
	if err != nil {
		return err
	}
	return h.service.RemoveLink(ctx, mapID, linkID)
}

// AddNote handles AddNoteCommand
func (h *MindMapCommandHandler) AddNote(ctx context.Context, cmd commands.AddNoteCommand) error {
	mapID, nodeID, noteID, err := parseNoteRef(cmd.MapID, cmd.NodeID, cmd.NoteID)
	if err != nil {
		return err
	}
	_, err = h.service.AddMarkdownNote(ctx, mapID, nodeID, noteID, cmd.Title, cmd.Content)
	return err
}

// UpdateNote handles UpdateNoteCommand
func (h *MindMapCommandHandler) UpdateNote(ctx context.Context, cmd commands.UpdateNoteCommand) error {
	mapID, nodeID, noteID, err := parseNoteRef(cmd.MapID, cmd.NodeID, cmd.NoteID)
	if err != nil {
		return err
	}
	_, err = h.service.UpdateMarkdownNote(ctx, mapID, nodeID, noteID, cmd.Title, cmd.Content)
	return err
}

// RemoveNote handles RemoveNoteCommand
func (h *MindMapCommandHandler) RemoveNote(ctx context.Context, cmd commands.RemoveNoteCommand) error {
	mapID, nodeID, noteID, err := parseNoteRef(cmd.MapID, cmd.NodeID, cmd.NoteID)
	if err != nil {
		return err
	}
	return h.service.RemoveMarkdownNote(ctx, mapID, nodeID, noteID)
}

// CaptureIdea handles CaptureIdeaCommand
func (h *MindMapCommandHandler) CaptureIdea(ctx context.Context, cmd commands.CaptureIdeaCommand) error {
	mapID, err := valueobjects.ParseMapID(cmd.MapID)
	if err != nil {
		return err
	}
	nodeID, err := valueobjects.ParseNodeID(cmd.NodeID)
	if err != nil {
		return err
	}

	_, err = h.service.CaptureIdea(ctx, mapID, nodeID, cmd.Idea, cmd.Category)
	return err
}

func parseNoteRef(mapStr, nodeStr, noteStr string) (valueobjects.MapID, valueobjects.NodeID, valueobjects.NoteID, error) {
	mapID, err := valueobjects.ParseMapID(mapStr)
	if err != nil {
		return valueobjects.MapID{}, valueobjects.NodeID{}, valueobjects.NoteID{}, err
	}
	nodeID, err := valueobjects.ParseNodeID(nodeStr)
	if err != nil {
		return valueobjects.MapID{}, valueobjects.NodeID{}, valueobjects.NoteID{}, err
	}
	noteID, err := valueobjects.ParseNoteID(noteStr)
	if err != nil {
		return valueobjects.MapID{}, valueobjects.NodeID{}, valueobjects.NoteID{}, err
	}
	return mapID, nodeID, noteID, nil
}
