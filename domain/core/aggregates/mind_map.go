package aggregates

import (
	"slices"
	"time"

	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
	pkgerrors "mappamentis/pkg/errors"
)

// MindMap is the aggregate root for a graph of ideas
// Every link endpoint always references a node held by the same map.
type MindMap struct {
	id          valueobjects.MapID
	title       valueobjects.Title
	description string
	createdAt   time.Time
	updatedAt   time.Time
	version     int

	// persistedVersion is the version last read from or written to storage
	persistedVersion int

	nodes     map[valueobjects.NodeID]*entities.MindNode
	nodeOrder []valueobjects.NodeID
	links     map[valueobjects.LinkID]*entities.MindLink
	linkOrder []valueobjects.LinkID

	// incident maps a node to every link that uses it as source or target
	incident map[valueobjects.NodeID]map[valueobjects.LinkID]struct{}

	clock  Clock
	events []events.DomainEvent
}

// NewMindMap creates an empty mind map
func NewMindMap(id valueobjects.MapID, title valueobjects.Title, description string, opts ...Option) (*MindMap, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("map ID is required")
	}
	if title.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("title is required")
	}

	o := applyOptions(opts)
	now := o.clock()
	m := newMindMap(id, title, description, now, now, 1, o.clock)

	m.addEvent(events.NewMindMapCreated(id.String(), title.String(), m.version, now))

	return m, nil
}

func newMindMap(
	id valueobjects.MapID,
	title valueobjects.Title,
	description string,
	createdAt, updatedAt time.Time,
	version int,
	clock Clock,
) *MindMap {
	return &MindMap{
		id:          id,
		title:       title,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
		nodes:       make(map[valueobjects.NodeID]*entities.MindNode),
		links:       make(map[valueobjects.LinkID]*entities.MindLink),
		incident:    make(map[valueobjects.NodeID]map[valueobjects.LinkID]struct{}),
		clock:       clock,
		events:      []events.DomainEvent{},
	}
}

// ID returns the map's unique identifier
func (m *MindMap) ID() valueobjects.MapID {
	return m.id
}

// Title returns the map's title
func (m *MindMap) Title() valueobjects.Title {
	return m.title
}

// Description returns the map's description
func (m *MindMap) Description() string {
	return m.description
}

// CreatedAt returns when the map was created
func (m *MindMap) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the map was last changed
func (m *MindMap) UpdatedAt() time.Time {
	return m.updatedAt
}

// Version returns the map's version for optimistic locking
func (m *MindMap) Version() int {
	return m.version
}

// NodeCount returns the number of nodes
func (m *MindMap) NodeCount() int {
	return len(m.nodeOrder)
}

// LinkCount returns the number of links
func (m *MindMap) LinkCount() int {
	return len(m.linkOrder)
}

// Nodes returns copies of all nodes in insertion order
func (m *MindMap) Nodes() []*entities.MindNode {
	nodes := make([]*entities.MindNode, 0, len(m.nodeOrder))
	for _, id := range m.nodeOrder {
		nodes = append(nodes, m.nodes[id].Clone())
	}
	return nodes
}

// Links returns copies of all links in insertion order
func (m *MindMap) Links() []*entities.MindLink {
	links := make([]*entities.MindLink, 0, len(m.linkOrder))
	for _, id := range m.linkOrder {
		links = append(links, m.links[id].Clone())
	}
	return links
}

// Node returns a copy of the node with the given ID
func (m *MindMap) Node(id valueobjects.NodeID) (*entities.MindNode, bool) {
	node, ok := m.nodes[id]
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Link returns a copy of the link with the given ID
func (m *MindMap) Link(id valueobjects.LinkID) (*entities.MindLink, bool) {
	link, ok := m.links[id]
	if !ok {
		return nil, false
	}
	return link.Clone(), true
}

// HasNode checks if a node exists in the map
func (m *MindMap) HasNode(id valueobjects.NodeID) bool {
	_, ok := m.nodes[id]
	return ok
}

// LinksFrom returns copies of the links whose source is the given node, in insertion order
func (m *MindMap) LinksFrom(id valueobjects.NodeID) []*entities.MindLink {
	incident := m.incident[id]
	var links []*entities.MindLink
	for _, linkID := range m.linkOrder {
		if _, ok := incident[linkID]; !ok {
			continue
		}
		if link := m.links[linkID]; link.SourceID().Equals(id) {
			links = append(links, link.Clone())
		}
	}
	return links
}

// Update replaces the title and description
func (m *MindMap) Update(title valueobjects.Title, description string) error {
	if title.IsZero() {
		return pkgerrors.NewInvalidArgumentError("title is required")
	}

	m.title = title
	m.description = description
	m.touch()

	return nil
}

// AddNode inserts a copy of the node
func (m *MindMap) AddNode(node *entities.MindNode) error {
	if err := m.insertNode(node); err != nil {
		return err
	}
	m.touch()

	pos := node.Position()
	m.addEvent(events.NewNodeAdded(m.id.String(), node.ID().String(), node.Content(), pos.X(), pos.Y(), m.version, m.updatedAt))

	return nil
}

// CaptureIdea adds the node as a quick idea filed under a category
func (m *MindMap) CaptureIdea(node *entities.MindNode, category string) error {
	if category == "" {
		category = "General"
	}
	if err := m.AddNode(node); err != nil {
		return err
	}

	m.addEvent(events.NewIdeaCaptured(m.id.String(), node.ID().String(), node.Content(), category, m.version, m.updatedAt))

	return nil
}

// UpdateNode edits a node's content, position and color
func (m *MindMap) UpdateNode(id valueobjects.NodeID, content string, position valueobjects.Position, color string) error {
	node, ok := m.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	m.touch()
	node.Update(content, position, color, m.updatedAt)

	return nil
}

// RemoveNode deletes the node together with every link touching it and its notes
// It reports whether a node was removed; an unknown ID is a no-op.
func (m *MindMap) RemoveNode(id valueobjects.NodeID) bool {
	if _, ok := m.nodes[id]; !ok {
		return false
	}

	var removedLinks []string
	for _, linkID := range slices.Clone(m.linkOrder) {
		if _, ok := m.incident[id][linkID]; ok {
			m.deleteLink(linkID)
			removedLinks = append(removedLinks, linkID.String())
		}
	}

	delete(m.nodes, id)
	delete(m.incident, id)
	m.nodeOrder = slices.DeleteFunc(m.nodeOrder, id.Equals)
	m.touch()

	m.addEvent(events.NewNodeRemoved(m.id.String(), id.String(), removedLinks, m.version, m.updatedAt))

	return true
}

// AddLink inserts a copy of the link; both endpoints must already be on the map
func (m *MindMap) AddLink(link *entities.MindLink) error {
	if link == nil {
		return pkgerrors.NewInvalidArgumentError("link is required")
	}
	if err := m.insertLink(link); err != nil {
		return err
	}
	m.touch()

	m.addEvent(events.NewLinkAdded(m.id.String(), link.ID().String(), link.SourceID().String(),
		link.TargetID().String(), link.Label(), m.version, m.updatedAt))

	return nil
}

// UpdateLink restyles a link
func (m *MindMap) UpdateLink(id valueobjects.LinkID, style entities.LinkStyle) error {
	link, ok := m.links[id]
	if !ok {
		return pkgerrors.NewNotFoundError("link")
	}

	m.touch()
	link.Update(style, m.updatedAt)

	return nil
}

// RemoveLink deletes a link; it reports whether a link was removed
func (m *MindMap) RemoveLink(id valueobjects.LinkID) bool {
	if _, ok := m.links[id]; !ok {
		return false
	}

	m.deleteLink(id)
	m.touch()

	return true
}

// AddNote attaches a markdown note to a node
func (m *MindMap) AddNote(nodeID valueobjects.NodeID, note *entities.MarkdownNote) error {
	if note == nil {
		return pkgerrors.NewInvalidArgumentError("note is required")
	}
	node, ok := m.nodes[nodeID]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	now := m.clock()
	if err := node.AddNote(note, now); err != nil {
		return err
	}
	m.touchAt(now)

	m.addEvent(events.NewNoteAdded(m.id.String(), nodeID.String(), note.ID().String(), note.Title(), m.version, now))

	return nil
}

// UpdateNote edits a note attached to a node
func (m *MindMap) UpdateNote(nodeID valueobjects.NodeID, noteID valueobjects.NoteID, title, content string) error {
	node, ok := m.nodes[nodeID]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	now := m.clock()
	if err := node.UpdateNote(noteID, title, content, now); err != nil {
		return err
	}
	m.touchAt(now)

	return nil
}

// RemoveNote detaches a note; it reports whether a note was removed
func (m *MindMap) RemoveNote(nodeID valueobjects.NodeID, noteID valueobjects.NoteID) bool {
	node, ok := m.nodes[nodeID]
	if !ok {
		return false
	}

	now := m.clock()
	if !node.RemoveNote(noteID, now) {
		return false
	}
	m.touchAt(now)

	return true
}

// ClearNotes removes every note from a node; it reports whether anything was removed
func (m *MindMap) ClearNotes(nodeID valueobjects.NodeID) bool {
	node, ok := m.nodes[nodeID]
	if !ok {
		return false
	}

	now := m.clock()
	if !node.ClearNotes(now) {
		return false
	}
	m.touchAt(now)

	return true
}

// Validate ensures the map's structural invariants hold
func (m *MindMap) Validate() error {
	if len(m.nodes) != len(m.nodeOrder) || len(m.links) != len(m.linkOrder) {
		return pkgerrors.NewInternalError("mind map index out of sync")
	}

	for _, link := range m.links {
		if link.SourceID().Equals(link.TargetID()) {
			return pkgerrors.NewInvalidArgumentError("a link cannot connect a node to itself")
		}
		if _, ok := m.nodes[link.SourceID()]; !ok {
			return pkgerrors.NewReferentialIntegrityError("link references non-existent source node").
				WithDetail("link_id", link.ID().String())
		}
		if _, ok := m.nodes[link.TargetID()]; !ok {
			return pkgerrors.NewReferentialIntegrityError("link references non-existent target node").
				WithDetail("link_id", link.ID().String())
		}
	}

	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (m *MindMap) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events and records the current version as persisted
func (m *MindMap) MarkEventsAsCommitted() {
	m.events = []events.DomainEvent{}
	m.persistedVersion = m.version
}

// PersistedVersion returns the version storage is expected to hold, 0 for a map never stored
func (m *MindMap) PersistedVersion() int {
	return m.persistedVersion
}

// Private helper methods

func (m *MindMap) insertNode(node *entities.MindNode) error {
	if node == nil {
		return pkgerrors.NewInvalidArgumentError("node is required")
	}
	if !node.MapID().Equals(m.id) {
		return pkgerrors.NewInvalidArgumentError("node belongs to a different mind map")
	}
	if _, exists := m.nodes[node.ID()]; exists {
		return pkgerrors.NewDuplicateIDError("node", node.ID().String())
	}

	m.nodes[node.ID()] = node.Clone()
	m.nodeOrder = append(m.nodeOrder, node.ID())

	return nil
}

func (m *MindMap) insertLink(link *entities.MindLink) error {
	if !link.MapID().Equals(m.id) {
		return pkgerrors.NewInvalidArgumentError("link belongs to a different mind map")
	}
	if _, ok := m.nodes[link.SourceID()]; !ok {
		return pkgerrors.NewReferentialIntegrityError("source node does not exist").
			WithDetail("node_id", link.SourceID().String())
	}
	if _, ok := m.nodes[link.TargetID()]; !ok {
		return pkgerrors.NewReferentialIntegrityError("target node does not exist").
			WithDetail("node_id", link.TargetID().String())
	}
	if _, exists := m.links[link.ID()]; exists {
		return pkgerrors.NewDuplicateIDError("link", link.ID().String())
	}

	m.links[link.ID()] = link.Clone()
	m.linkOrder = append(m.linkOrder, link.ID())
	m.index(link.SourceID(), link.ID())
	m.index(link.TargetID(), link.ID())

	return nil
}

func (m *MindMap) deleteLink(id valueobjects.LinkID) {
	link := m.links[id]
	delete(m.links, id)
	m.linkOrder = slices.DeleteFunc(m.linkOrder, id.Equals)
	delete(m.incident[link.SourceID()], id)
	delete(m.incident[link.TargetID()], id)
}

func (m *MindMap) index(nodeID valueobjects.NodeID, linkID valueobjects.LinkID) {
	set, ok := m.incident[nodeID]
	if !ok {
		set = make(map[valueobjects.LinkID]struct{})
		m.incident[nodeID] = set
	}
	set[linkID] = struct{}{}
}

func (m *MindMap) touch() {
	m.touchAt(m.clock())
}

func (m *MindMap) touchAt(now time.Time) {
	m.updatedAt = now
	m.version++
}

func (m *MindMap) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}
