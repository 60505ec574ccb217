package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func mustTitle(t *testing.T, s string) valueobjects.Title {
	t.Helper()
	title, err := valueobjects.NewTitle(s)
	require.NoError(t, err)
	return title
}

func newTestMap(t *testing.T, clock *fakeClock) *MindMap {
	t.Helper()
	m, err := NewMindMap(valueobjects.NewMapID(), mustTitle(t, "Test map"), "desc", WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func newTestNode(t *testing.T, m *MindMap, content string) *entities.MindNode {
	t.Helper()
	node, err := entities.NewMindNode(valueobjects.NewNodeID(), m.ID(), content, valueobjects.NewPosition(0, 0), "", m.clock())
	require.NoError(t, err)
	return node
}

func addNode(t *testing.T, m *MindMap, content string) *entities.MindNode {
	t.Helper()
	node := newTestNode(t, m, content)
	require.NoError(t, m.AddNode(node))
	return node
}

func addLink(t *testing.T, m *MindMap, source, target valueobjects.NodeID) *entities.MindLink {
	t.Helper()
	link, err := entities.NewMindLink(valueobjects.NewLinkID(), m.ID(), source, target, entities.DefaultLinkStyle(), m.clock())
	require.NoError(t, err)
	require.NoError(t, m.AddLink(link))
	return link
}
