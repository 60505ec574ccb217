package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mappamentis/application/ports"
	"mappamentis/application/ports/mocks"
	"mappamentis/domain/config"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
	"mappamentis/domain/events"
	pkgerrors "mappamentis/pkg/errors"
)

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// inUnitOfWork matches contexts that carry a unit of work
var inUnitOfWork = mock.MatchedBy(func(ctx context.Context) bool {
	_, ok := ports.UnitOfWorkFrom(ctx)
	return ok
})

type mapFixture struct {
	maps   *mocks.MockMindMapRepository
	timers *mocks.MockTimerRepository
	bus    *mocks.MockEventBus
	svc    *MindMapService
}

func newMapFixture() *mapFixture {
	f := &mapFixture{
		maps:   new(mocks.MockMindMapRepository),
		timers: new(mocks.MockTimerRepository),
		bus:    new(mocks.MockEventBus),
	}
	f.svc = NewMindMapService(f.maps, f.timers, f.bus, config.DefaultDomainConfig(), zap.NewNop()).WithClock(fixedClock)
	return f
}

func (f *mapFixture) expectPersist() {
	f.maps.On("Save", inUnitOfWork, mock.AnythingOfType("*aggregates.MindMap")).Return(nil).Once()
	f.maps.On("Commit", inUnitOfWork).Return(nil).Once()
	f.bus.On("PublishBatch", mock.Anything, mock.AnythingOfType("[]events.DomainEvent")).Return(nil).Once()
}

// seedMap builds a stored map with the given node contents and no pending events
func seedMap(t *testing.T, contents ...string) (*aggregates.MindMap, []valueobjects.NodeID) {
	t.Helper()
	title, err := valueobjects.NewTitle("Seed")
	require.NoError(t, err)
	m, err := aggregates.NewMindMap(valueobjects.NewMapID(), title, "", aggregates.WithClock(fixedClock))
	require.NoError(t, err)

	var ids []valueobjects.NodeID
	for _, c := range contents {
		node, err := entities.NewMindNode(valueobjects.NewNodeID(), m.ID(), c, valueobjects.NewPosition(0, 0), "", fixedNow)
		require.NoError(t, err)
		require.NoError(t, m.AddNode(node))
		ids = append(ids, node.ID())
	}
	m.MarkEventsAsCommitted()
	return m, ids
}

func link(t *testing.T, m *aggregates.MindMap, source, target valueobjects.NodeID) {
	t.Helper()
	l, err := entities.NewMindLink(valueobjects.NewLinkID(), m.ID(), source, target, entities.DefaultLinkStyle(), fixedNow)
	require.NoError(t, err)
	require.NoError(t, m.AddLink(l))
	m.MarkEventsAsCommitted()
}

func TestMindMapService_CreateMindMap(t *testing.T) {
	ctx := context.Background()
	title, _ := valueobjects.NewTitle("Thesis")

	t.Run("success", func(t *testing.T) {
		f := newMapFixture()
		mapID, rootID := valueobjects.NewMapID(), valueobjects.NewNodeID()

		f.maps.On("Exists", ctx, mapID).Return(false, nil)
		f.maps.On("Save", inUnitOfWork, mock.AnythingOfType("*aggregates.MindMap")).Return(nil)
		f.maps.On("Commit", inUnitOfWork).Return(nil)
		f.bus.On("PublishBatch", ctx, mock.MatchedBy(func(evts []events.DomainEvent) bool {
			return len(evts) == 2 &&
				evts[0].GetEventType() == events.TypeMindMapCreated &&
				evts[1].GetEventType() == events.TypeNodeAdded
		})).Return(nil)

		m, err := f.svc.CreateMindMap(ctx, mapID, rootID, title, "notes", "Central question")

		require.NoError(t, err)
		assert.Equal(t, mapID, m.ID())
		root, ok := m.Node(rootID)
		require.True(t, ok)
		assert.Equal(t, "Central question", root.Content())
		assert.Empty(t, m.GetUncommittedEvents())
		f.maps.AssertExpectations(t)
		f.bus.AssertExpectations(t)
	})

	t.Run("duplicate id", func(t *testing.T) {
		f := newMapFixture()
		mapID := valueobjects.NewMapID()
		f.maps.On("Exists", ctx, mapID).Return(true, nil)

		_, err := f.svc.CreateMindMap(ctx, mapID, valueobjects.NewNodeID(), title, "", "root")

		assert.True(t, pkgerrors.IsDuplicateID(err))
		f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("blank root content", func(t *testing.T) {
		f := newMapFixture()

		_, err := f.svc.CreateMindMap(ctx, valueobjects.NewMapID(), valueobjects.NewNodeID(), title, "", "  ")

		assert.True(t, pkgerrors.IsInvalidArgument(err))
		f.maps.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})
}

func TestMindMapService_LoadFailureSurfacesUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	mapID := valueobjects.NewMapID()
	f.maps.On("Load", ctx, mapID).Return(nil, pkgerrors.NewNotFoundError("mind map"))

	_, err := f.svc.AddNode(ctx, mapID, valueobjects.NewNodeID(), "x", valueobjects.NewPosition(0, 0), "")

	assert.True(t, pkgerrors.IsNotFound(err))
	f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMindMapService_AddNode(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, _ := seedMap(t, "root")
	nodeID := valueobjects.NewNodeID()

	f.maps.On("Load", ctx, m.ID()).Return(m, nil)
	f.expectPersist()

	node, err := f.svc.AddNode(ctx, m.ID(), nodeID, "branch", valueobjects.NewPosition(10, 20), "")

	require.NoError(t, err)
	assert.Equal(t, "branch", node.Content())
	assert.Equal(t, "#FFFFFF", node.Color())
	assert.Equal(t, 2, m.NodeCount())
	f.maps.AssertExpectations(t)
}

func TestMindMapService_AddNode_DuplicateLeavesMapUnsaved(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, ids := seedMap(t, "root")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)

	_, err := f.svc.AddNode(ctx, m.ID(), ids[0], "again", valueobjects.NewPosition(0, 0), "")

	assert.True(t, pkgerrors.IsDuplicateID(err))
	f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.bus.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestMindMapService_AddChildNode(t *testing.T) {
	ctx := context.Background()

	t.Run("links child from parent", func(t *testing.T) {
		f := newMapFixture()
		m, ids := seedMap(t, "parent")
		childID, linkID := valueobjects.NewNodeID(), valueobjects.NewLinkID()
		f.maps.On("Load", ctx, m.ID()).Return(m, nil)
		f.expectPersist()

		child, err := f.svc.AddChildNode(ctx, m.ID(), ids[0], childID, linkID, "child", "expands")

		require.NoError(t, err)
		assert.Equal(t, childID, child.ID())
		assert.Equal(t, childOffset, child.Position().X())

		l, ok := m.Link(linkID)
		require.True(t, ok)
		assert.Equal(t, ids[0], l.SourceID())
		assert.Equal(t, childID, l.TargetID())
		assert.Equal(t, "expands", l.Label())
		assert.Equal(t, "solid", l.LineStyle())
	})

	t.Run("missing parent", func(t *testing.T) {
		f := newMapFixture()
		m, _ := seedMap(t, "parent")
		f.maps.On("Load", ctx, m.ID()).Return(m, nil)

		_, err := f.svc.AddChildNode(ctx, m.ID(), valueobjects.NewNodeID(), valueobjects.NewNodeID(), valueobjects.NewLinkID(), "child", "")

		assert.True(t, pkgerrors.IsNotFound(err))
		assert.Equal(t, 1, m.NodeCount())
		f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("blank content", func(t *testing.T) {
		f := newMapFixture()
		_, err := f.svc.AddChildNode(ctx, valueobjects.NewMapID(), valueobjects.NewNodeID(), valueobjects.NewNodeID(), valueobjects.NewLinkID(), "", "")
		assert.True(t, pkgerrors.IsInvalidArgument(err))
	})
}

func TestMindMapService_RemoveNode(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades links", func(t *testing.T) {
		f := newMapFixture()
		m, ids := seedMap(t, "A", "B", "C", "D")
		link(t, m, ids[0], ids[1])
		link(t, m, ids[1], ids[2])
		link(t, m, ids[2], ids[3])
		f.maps.On("Load", ctx, m.ID()).Return(m, nil)
		f.expectPersist()

		require.NoError(t, f.svc.RemoveNode(ctx, m.ID(), ids[1]))

		assert.Equal(t, 3, m.NodeCount())
		assert.Equal(t, 1, m.LinkCount())
		f.maps.AssertExpectations(t)
	})

	t.Run("unknown node is not persisted", func(t *testing.T) {
		f := newMapFixture()
		m, _ := seedMap(t, "A")
		f.maps.On("Load", ctx, m.ID()).Return(m, nil)

		require.NoError(t, f.svc.RemoveNode(ctx, m.ID(), valueobjects.NewNodeID()))
		require.NoError(t, f.svc.RemoveLink(ctx, m.ID(), valueobjects.NewLinkID()))

		f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestMindMapService_SaveFailureSkipsPublish(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, _ := seedMap(t, "A")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)
	f.maps.On("Save", inUnitOfWork, m).Return(pkgerrors.NewConflictError("stale"))

	_, err := f.svc.AddNode(ctx, m.ID(), valueobjects.NewNodeID(), "B", valueobjects.NewPosition(0, 0), "")

	assert.True(t, pkgerrors.IsConflict(err))
	f.maps.AssertNotCalled(t, "Commit", mock.Anything)
	f.bus.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestMindMapService_UpdateNodeMergesWithinOneLoad(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, ids := seedMap(t, "Draft")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil).Once()
	f.maps.On("Save", inUnitOfWork, m).Return(nil).Once()
	f.maps.On("Commit", inUnitOfWork).Return(nil).Once()
	f.bus.On("PublishBatch", ctx, mock.Anything).Return(nil).Maybe()

	y := 12
	color := "#00FF00"
	node, err := f.svc.UpdateNode(ctx, m.ID(), ids[0], NodeChanges{Y: &y, Color: &color})

	require.NoError(t, err)
	assert.Equal(t, "Draft", node.Content())
	assert.Equal(t, 0, node.Position().X())
	assert.Equal(t, 12, node.Position().Y())
	assert.Equal(t, color, node.Color())
	f.maps.AssertNumberOfCalls(t, "Load", 1)
}

func TestMindMapService_UpdateNodeOnMissingNode(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, _ := seedMap(t, "A")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)

	content := "x"
	_, err := f.svc.UpdateNode(ctx, m.ID(), valueobjects.NewNodeID(), NodeChanges{Content: &content})

	assert.True(t, pkgerrors.IsNotFound(err))
	f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMindMapService_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, _ := seedMap(t, "A")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)
	f.maps.On("Save", inUnitOfWork, m).Return(nil)
	f.maps.On("Commit", inUnitOfWork).Return(nil)
	f.bus.On("PublishBatch", ctx, mock.Anything).Return(errors.New("bus down"))

	_, err := f.svc.AddNode(ctx, m.ID(), valueobjects.NewNodeID(), "B", valueobjects.NewPosition(0, 0), "")

	assert.NoError(t, err)
	assert.Empty(t, m.GetUncommittedEvents())
}

func TestMindMapService_Notes(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, ids := seedMap(t, "A")
	noteID := valueobjects.NewNoteID()
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)
	f.maps.On("Save", inUnitOfWork, m).Return(nil)
	f.maps.On("Commit", inUnitOfWork).Return(nil)
	f.bus.On("PublishBatch", ctx, mock.Anything).Return(nil)

	note, err := f.svc.AddMarkdownNote(ctx, m.ID(), ids[0], noteID, "Sources", "* paper")
	require.NoError(t, err)
	assert.Equal(t, "Sources", note.Title())

	note, err = f.svc.UpdateMarkdownNote(ctx, m.ID(), ids[0], noteID, "Sources", "* paper\n* book")
	require.NoError(t, err)
	assert.Equal(t, "* paper\n* book", note.Content())

	_, err = f.svc.AddMarkdownNote(ctx, m.ID(), valueobjects.NewNodeID(), valueobjects.NewNoteID(), "x", "y")
	assert.True(t, pkgerrors.IsNotFound(err))

	require.NoError(t, f.svc.RemoveMarkdownNote(ctx, m.ID(), ids[0], noteID))
	node, _ := m.Node(ids[0])
	assert.Zero(t, node.NoteCount())
}

func TestMindMapService_Links(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, ids := seedMap(t, "A", "B")
	linkID := valueobjects.NewLinkID()
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)
	f.maps.On("Save", inUnitOfWork, m).Return(nil)
	f.maps.On("Commit", inUnitOfWork).Return(nil)
	f.bus.On("PublishBatch", ctx, mock.Anything).Return(nil)

	l, err := f.svc.AddLink(ctx, m.ID(), linkID, ids[0], ids[1], entities.LinkStyle{Label: "causes"})
	require.NoError(t, err)
	assert.Equal(t, "#000000", l.Color())

	_, err = f.svc.AddLink(ctx, m.ID(), valueobjects.NewLinkID(), ids[0], ids[0], entities.LinkStyle{})
	assert.True(t, pkgerrors.IsInvalidArgument(err))

	_, err = f.svc.AddLink(ctx, m.ID(), valueobjects.NewLinkID(), ids[0], valueobjects.NewNodeID(), entities.LinkStyle{})
	assert.True(t, pkgerrors.IsReferentialIntegrity(err))

	l, err = f.svc.UpdateLink(ctx, m.ID(), linkID, entities.LinkStyle{Label: "enables", LineStyle: "dashed"})
	require.NoError(t, err)
	assert.Equal(t, "dashed", l.LineStyle())

	require.NoError(t, f.svc.RemoveLink(ctx, m.ID(), linkID))
	assert.Zero(t, m.LinkCount())
}

func TestMindMapService_CaptureIdea(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, _ := seedMap(t, "root")
	nodeID := valueobjects.NewNodeID()
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)
	f.maps.On("Save", inUnitOfWork, m).Return(nil)
	f.maps.On("Commit", inUnitOfWork).Return(nil)
	f.bus.On("PublishBatch", ctx, mock.MatchedBy(func(evts []events.DomainEvent) bool {
		if len(evts) != 2 {
			return false
		}
		idea, ok := evts[1].(events.IdeaCaptured)
		return ok && idea.Category == "General" && idea.NodeID == nodeID.String()
	})).Return(nil)

	node, err := f.svc.CaptureIdea(ctx, m.ID(), nodeID, "Interview users", " ")

	require.NoError(t, err)
	assert.Equal(t, "Interview users", node.Content())
	f.bus.AssertExpectations(t)

	_, err = f.svc.CaptureIdea(ctx, m.ID(), valueobjects.NewNodeID(), "", "")
	assert.True(t, pkgerrors.IsInvalidArgument(err))
}

func TestMindMapService_SearchNodesByContent(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, _ := seedMap(t, "Machine Learning", "learning plan", "Groceries")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)

	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{name: "case insensitive", keyword: "LEARN", want: []string{"Machine Learning", "learning plan"}},
		{name: "single match", keyword: "cer", want: []string{"Groceries"}},
		{name: "no match", keyword: "zebra", want: []string{}},
		{name: "blank keyword", keyword: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := f.svc.SearchNodesByContent(ctx, m.ID(), tt.keyword)
			require.NoError(t, err)

			got := []string{}
			for _, n := range nodes {
				got = append(got, n.Content())
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 3, m.NodeCount(), "queries never mutate")
	f.maps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMindMapService_SearchRespectsLimit(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	f.svc.config = &config.DomainConfig{MaxSearchResults: 1}
	m, _ := seedMap(t, "alpha", "alphabet")
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)

	nodes, err := f.svc.SearchNodesByContent(ctx, m.ID(), "alpha")

	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestMindMapService_GetChildNodes(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	m, ids := seedMap(t, "root", "child1", "child2", "grandchild")
	link(t, m, ids[0], ids[1])
	link(t, m, ids[0], ids[2])
	link(t, m, ids[1], ids[3])
	link(t, m, ids[3], ids[0])
	f.maps.On("Load", ctx, m.ID()).Return(m, nil)

	children, err := f.svc.GetChildNodes(ctx, m.ID(), ids[0])
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "child1", children[0].Content())
	assert.Equal(t, "child2", children[1].Content())

	children, err = f.svc.GetChildNodes(ctx, m.ID(), ids[2])
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestMindMapService_ListMindMaps(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	title, _ := valueobjects.NewTitle("m")
	older, _ := aggregates.NewMindMap(valueobjects.NewMapID(), title, "", aggregates.WithClock(func() time.Time { return fixedNow.Add(-time.Hour) }))
	newer, _ := aggregates.NewMindMap(valueobjects.NewMapID(), title, "", aggregates.WithClock(fixedClock))
	f.maps.On("LoadAll", ctx).Return([]*aggregates.MindMap{newer, older}, nil)

	maps, err := f.svc.ListMindMaps(ctx)

	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, older.ID(), maps[0].ID())
}

func TestMindMapService_DeleteMindMap(t *testing.T) {
	ctx := context.Background()
	f := newMapFixture()
	mapID := valueobjects.NewMapID()
	timer, err := aggregates.NewPomodoroTimer(valueobjects.NewTimerID(), mapID, 25, 5)
	require.NoError(t, err)

	f.timers.On("LoadByMap", ctx, mapID).Return([]*aggregates.PomodoroTimer{timer}, nil)
	f.timers.On("Delete", inUnitOfWork, timer.ID()).Return(nil)
	f.timers.On("Commit", inUnitOfWork).Return(nil)
	f.maps.On("Delete", inUnitOfWork, mapID).Return(nil)
	f.maps.On("Commit", inUnitOfWork).Return(nil)

	require.NoError(t, f.svc.DeleteMindMap(ctx, mapID))

	f.timers.AssertExpectations(t)
	f.maps.AssertExpectations(t)
}
