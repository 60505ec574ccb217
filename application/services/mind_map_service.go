package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/domain/config"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
	pkgerrors "mappamentis/pkg/errors"
)

// childOffset places a new child node to the right of its parent
const childOffset = 200

// errUnchanged signals a mutation that turned out to be a no-op
var errUnchanged = errors.New("aggregate unchanged")

// MindMapService coordinates mind map aggregates with persistence and event publishing
type MindMapService struct {
	maps      ports.MindMapRepository
	timers    ports.TimerRepository
	publisher ports.EventPublisher
	config    *config.DomainConfig
	clock     aggregates.Clock
	logger    *zap.Logger
}

// NewMindMapService creates a new mind map service
func NewMindMapService(
	maps ports.MindMapRepository,
	timers ports.TimerRepository,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *MindMapService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &MindMapService{
		maps:      maps,
		timers:    timers,
		publisher: publisher,
		config:    cfg,
		clock:     func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// WithClock overrides the time source used for new entities
func (s *MindMapService) WithClock(clock aggregates.Clock) *MindMapService {
	s.clock = clock
	return s
}

// CreateMindMap creates a map holding a single root node
func (s *MindMapService) CreateMindMap(
	ctx context.Context,
	mapID valueobjects.MapID,
	rootID valueobjects.NodeID,
	title valueobjects.Title,
	description string,
	rootContent string,
) (*aggregates.MindMap, error) {
	if strings.TrimSpace(rootContent) == "" {
		return nil, pkgerrors.NewInvalidArgumentError("root node content cannot be empty")
	}

	exists, err := s.maps.Exists(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgerrors.NewDuplicateIDError("mind map", mapID.String())
	}

	mindMap, err := aggregates.NewMindMap(mapID, title, description, aggregates.WithClock(s.clock))
	if err != nil {
		return nil, err
	}

	root, err := entities.NewMindNode(rootID, mapID, rootContent, valueobjects.NewPosition(0, 0), s.config.DefaultNodeColor, s.clock())
	if err != nil {
		return nil, err
	}
	if err := mindMap.AddNode(root); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, mindMap); err != nil {
		return nil, err
	}

	s.logger.Info("Mind map created",
		zap.String("mapID", mapID.String()),
		zap.String("title", title.String()),
	)

	return mindMap, nil
}

// GetMindMap loads a map by ID
func (s *MindMapService) GetMindMap(ctx context.Context, id valueobjects.MapID) (*aggregates.MindMap, error) {
	return s.maps.Load(ctx, id)
}

// ListMindMaps returns every map, oldest first
func (s *MindMapService) ListMindMaps(ctx context.Context) ([]*aggregates.MindMap, error) {
	maps, err := s.maps.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(maps, func(i, j int) bool {
		if maps[i].CreatedAt().Equal(maps[j].CreatedAt()) {
			return maps[i].ID().String() < maps[j].ID().String()
		}
		return maps[i].CreatedAt().Before(maps[j].CreatedAt())
	})

	return maps, nil
}

// UpdateMindMap replaces a map's title and description
func (s *MindMapService) UpdateMindMap(ctx context.Context, id valueobjects.MapID, title valueobjects.Title, description string) (*aggregates.MindMap, error) {
	return s.mutate(ctx, id, func(m *aggregates.MindMap) error {
		return m.Update(title, description)
	})
}

// DeleteMindMap removes a map together with its timers
func (s *MindMapService) DeleteMindMap(ctx context.Context, id valueobjects.MapID) error {
	writeCtx := ports.BeginUnitOfWork(ctx)

	if s.timers != nil {
		timers, err := s.timers.LoadByMap(ctx, id)
		if err != nil {
			return err
		}
		for _, timer := range timers {
			if err := s.timers.Delete(writeCtx, timer.ID()); err != nil {
				return err
			}
		}
		if len(timers) > 0 {
			if err := s.timers.Commit(writeCtx); err != nil {
				return err
			}
		}
	}

	if err := s.maps.Delete(writeCtx, id); err != nil {
		return err
	}
	if err := s.maps.Commit(writeCtx); err != nil {
		return err
	}

	s.logger.Info("Mind map deleted", zap.String("mapID", id.String()))

	return nil
}

// AddNode places a new node on a map
func (s *MindMapService) AddNode(
	ctx context.Context,
	mapID valueobjects.MapID,
	nodeID valueobjects.NodeID,
	content string,
	position valueobjects.Position,
	color string,
) (*entities.MindNode, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		node, err := entities.NewMindNode(nodeID, mapID, content, position, s.nodeColor(color), s.clock())
		if err != nil {
			return err
		}
		return m.AddNode(node)
	})
	if err != nil {
		return nil, err
	}

	node, _ := m.Node(nodeID)
	return node, nil
}

// AddChildNode adds a node and links it from an existing parent
func (s *MindMapService) AddChildNode(
	ctx context.Context,
	mapID valueobjects.MapID,
	parentID valueobjects.NodeID,
	nodeID valueobjects.NodeID,
	linkID valueobjects.LinkID,
	content string,
	linkLabel string,
) (*entities.MindNode, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewInvalidArgumentError("node content cannot be empty")
	}

	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		parent, ok := m.Node(parentID)
		if !ok {
			return pkgerrors.NewNotFoundError("parent node")
		}

		now := s.clock()
		position := parent.Position().Translate(childOffset, len(m.LinksFrom(parentID))*childOffset/2)
		child, err := entities.NewMindNode(nodeID, mapID, content, position, s.config.DefaultNodeColor, now)
		if err != nil {
			return err
		}
		link, err := entities.NewMindLink(linkID, mapID, parentID, nodeID, s.linkStyle(entities.LinkStyle{Label: linkLabel}), now)
		if err != nil {
			return err
		}

		if err := m.AddNode(child); err != nil {
			return err
		}
		return m.AddLink(link)
	})
	if err != nil {
		return nil, err
	}

	node, _ := m.Node(nodeID)
	return node, nil
}

// NodeChanges lists the node fields to replace; nil fields keep their stored value
type NodeChanges struct {
	Content *string
	X       *int
	Y       *int
	Color   *string
}

// UpdateNode applies changes to a node, merging them with the node as stored
func (s *MindMapService) UpdateNode(ctx context.Context, mapID valueobjects.MapID, nodeID valueobjects.NodeID, changes NodeChanges) (*entities.MindNode, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		current, ok := m.Node(nodeID)
		if !ok {
			return pkgerrors.NewNotFoundError("node").WithDetail("id", nodeID.String())
		}

		content := current.Content()
		if changes.Content != nil {
			content = *changes.Content
		}
		x, y := current.Position().X(), current.Position().Y()
		if changes.X != nil {
			x = *changes.X
		}
		if changes.Y != nil {
			y = *changes.Y
		}
		color := current.Color()
		if changes.Color != nil {
			color = *changes.Color
		}

		return m.UpdateNode(nodeID, content, valueobjects.NewPosition(x, y), s.nodeColor(color))
	})
	if err != nil {
		return nil, err
	}

	node, _ := m.Node(nodeID)
	return node, nil
}

// RemoveNode deletes a node and everything attached to it
func (s *MindMapService) RemoveNode(ctx context.Context, mapID valueobjects.MapID, nodeID valueobjects.NodeID) error {
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		if !m.RemoveNode(nodeID) {
			return errUnchanged
		}
		return nil
	})
	return err
}

// AddLink connects two existing nodes
func (s *MindMapService) AddLink(
	ctx context.Context,
	mapID valueobjects.MapID,
	linkID valueobjects.LinkID,
	sourceID, targetID valueobjects.NodeID,
	style entities.LinkStyle,
) (*entities.MindLink, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		link, err := entities.NewMindLink(linkID, mapID, sourceID, targetID, s.linkStyle(style), s.clock())
		if err != nil {
			return err
		}
		return m.AddLink(link)
	})
	if err != nil {
		return nil, err
	}

	link, _ := m.Link(linkID)
	return link, nil
}

// UpdateLink restyles a link
func (s *MindMapService) UpdateLink(
	ctx context.Context,
	mapID valueobjects.MapID,
	linkID valueobjects.LinkID,
	style entities.LinkStyle,
) (*entities.MindLink, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		return m.UpdateLink(linkID, s.linkStyle(style))
	})
	if err != nil {
		return nil, err
	}

	link, _ := m.Link(linkID)
	return link, nil
}

// RemoveLink deletes a link
func (s *MindMapService) RemoveLink(ctx context.Context, mapID valueobjects.MapID, linkID valueobjects.LinkID) error {
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		if !m.RemoveLink(linkID) {
			return errUnchanged
		}
		return nil
	})
	return err
}

// AddMarkdownNote attaches a new note to a node
func (s *MindMapService) AddMarkdownNote(
	ctx context.Context,
	mapID valueobjects.MapID,
	nodeID valueobjects.NodeID,
	noteID valueobjects.NoteID,
	title, content string,
) (*entities.MarkdownNote, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		note, err := entities.NewMarkdownNote(noteID, nodeID, title, content, s.clock())
		if err != nil {
			return err
		}
		return m.AddNote(nodeID, note)
	})
	if err != nil {
		return nil, err
	}

	return noteOf(m, nodeID, noteID), nil
}

// UpdateMarkdownNote edits a note attached to a node
func (s *MindMapService) UpdateMarkdownNote(
	ctx context.Context,
	mapID valueobjects.MapID,
	nodeID valueobjects.NodeID,
	noteID valueobjects.NoteID,
	title, content string,
) (*entities.MarkdownNote, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		return m.UpdateNote(nodeID, noteID, title, content)
	})
	if err != nil {
		return nil, err
	}

	return noteOf(m, nodeID, noteID), nil
}

// RemoveMarkdownNote detaches a note from a node
func (s *MindMapService) RemoveMarkdownNote(
	ctx context.Context,
	mapID valueobjects.MapID,
	nodeID valueobjects.NodeID,
	noteID valueobjects.NoteID,
) error {
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		if !m.RemoveNote(nodeID, noteID) {
			return errUnchanged
		}
		return nil
	})
	return err
}

// CaptureIdea files a quick idea as a new node
func (s *MindMapService) CaptureIdea(
	ctx context.Context,
	mapID valueobjects.MapID,
	nodeID valueobjects.NodeID,
	idea string,
	category string,
) (*entities.MindNode, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, pkgerrors.NewInvalidArgumentError("idea cannot be empty")
	}
	if strings.TrimSpace(category) == "" {
		category = s.config.DefaultIdeaCategory
	}

	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		position := valueobjects.NewPosition(0, m.NodeCount()*childOffset/2)
		node, err := entities.NewMindNode(nodeID, mapID, idea, position, s.config.DefaultNodeColor, s.clock())
		if err != nil {
			return err
		}
		return m.CaptureIdea(node, category)
	})
	if err != nil {
		return nil, err
	}

	node, _ := m.Node(nodeID)
	return node, nil
}

// mutate runs load → apply → save → commit → publish for one map
func (s *MindMapService) mutate(ctx context.Context, id valueobjects.MapID, apply func(*aggregates.MindMap) error) (*aggregates.MindMap, error) {
	mindMap, err := s.maps.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(mindMap); err != nil {
		if errors.Is(err, errUnchanged) {
			return mindMap, nil
		}
		return nil, err
	}

	if err := s.persist(ctx, mindMap); err != nil {
		return nil, err
	}

	return mindMap, nil
}

func (s *MindMapService) persist(ctx context.Context, mindMap *aggregates.MindMap) error {
	writeCtx := ports.BeginUnitOfWork(ctx)
	if err := s.maps.Save(writeCtx, mindMap); err != nil {
		return err
	}
	if err := s.maps.Commit(writeCtx); err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, mindMap.GetUncommittedEvents())
	mindMap.MarkEventsAsCommitted()

	return nil
}

func (s *MindMapService) nodeColor(color string) string {
	if color == "" {
		return s.config.DefaultNodeColor
	}
	return color
}

func (s *MindMapService) linkStyle(style entities.LinkStyle) entities.LinkStyle {
	if style.LineStyle == "" {
		style.LineStyle = s.config.DefaultLineStyle
	}
	if style.Color == "" {
		style.Color = s.config.DefaultLinkColor
	}
	return style
}

func noteOf(m *aggregates.MindMap, nodeID valueobjects.NodeID, noteID valueobjects.NoteID) *entities.MarkdownNote {
	node, ok := m.Node(nodeID)
	if !ok {
		return nil
	}
	note, _ := node.Note(noteID)
	return note
}

// publish hands committed events to the publisher; failures are only logged
func publish(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, evts []events.DomainEvent) {
	if publisher == nil || len(evts) == 0 {
		return
	}
	if err := publisher.PublishBatch(ctx, evts); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Error(err),
			zap.Int("count", len(evts)),
		)
	}
}
