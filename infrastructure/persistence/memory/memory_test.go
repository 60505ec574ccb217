package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mappamentis/application/ports"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/entities"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

var testNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newMap(t *testing.T, title string) *aggregates.MindMap {
	t.Helper()
	tt, err := valueobjects.NewTitle(title)
	require.NoError(t, err)
	m, err := aggregates.NewMindMap(valueobjects.NewMapID(), tt, "", aggregates.WithClock(testClock))
	require.NoError(t, err)
	return m
}

func addNode(t *testing.T, m *aggregates.MindMap, content string) valueobjects.NodeID {
	t.Helper()
	node, err := entities.NewMindNode(valueobjects.NewNodeID(), m.ID(), content, valueobjects.NewPosition(1, 2), "", testNow)
	require.NoError(t, err)
	require.NoError(t, m.AddNode(node))
	return node.ID()
}

func saveAndCommit(t *testing.T, repo *MindMapRepository, m *aggregates.MindMap) {
	t.Helper()
	ctx := ports.BeginUnitOfWork(context.Background())
	require.NoError(t, repo.Save(ctx, m))
	require.NoError(t, repo.Commit(ctx))
	m.MarkEventsAsCommitted()
}

func TestMindMapRepository_RoundTrip(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository(aggregates.WithClock(testClock))
	m := newMap(t, "Roundtrip")
	a := addNode(t, m, "A")
	b := addNode(t, m, "B")
	l, err := entities.NewMindLink(valueobjects.NewLinkID(), m.ID(), a, b, entities.DefaultLinkStyle(), testNow)
	require.NoError(t, err)
	require.NoError(t, m.AddLink(l))

	saveAndCommit(t, repo, m)

	loaded, err := repo.Load(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot(), loaded.Snapshot())
	assert.Empty(t, loaded.GetUncommittedEvents())

	exists, err := repo.Exists(ctx, m.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMindMapRepository_LoadMissing(t *testing.T) {
	_, err := NewMindMapRepository().Load(context.Background(), valueobjects.NewMapID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestMindMapRepository_StagedWritesInvisibleUntilCommit(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository()
	m := newMap(t, "Staged")

	require.NoError(t, repo.Save(ctx, m))
	exists, _ := repo.Exists(ctx, m.ID())
	assert.False(t, exists)

	require.NoError(t, repo.Commit(ctx))
	exists, _ = repo.Exists(ctx, m.ID())
	assert.True(t, exists)
}

func TestMindMapRepository_LoadedCopiesAreIndependent(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository()
	m := newMap(t, "Independent")
	saveAndCommit(t, repo, m)

	first, err := repo.Load(ctx, m.ID())
	require.NoError(t, err)
	addNode(t, first, "not saved")

	second, err := repo.Load(ctx, m.ID())
	require.NoError(t, err)
	assert.Zero(t, second.NodeCount())
}

func TestMindMapRepository_OptimisticConflict(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository()
	m := newMap(t, "Contended")
	saveAndCommit(t, repo, m)

	writerA, _ := repo.Load(ctx, m.ID())
	writerB, _ := repo.Load(ctx, m.ID())

	addNode(t, writerB, "B1")
	addNode(t, writerB, "B2")
	saveAndCommit(t, repo, writerB)

	addNode(t, writerA, "A1")
	addNode(t, writerA, "A2")
	addNode(t, writerA, "A3")
	require.NoError(t, repo.Save(ctx, writerA))
	err := repo.Commit(ctx)

	assert.True(t, pkgerrors.IsConflict(err))
	stored, _ := repo.Load(ctx, m.ID())
	assert.Equal(t, 2, stored.NodeCount())
}

func TestMindMapRepository_CreateTwiceConflicts(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository()
	m := newMap(t, "Twice")
	saveAndCommit(t, repo, m)

	clone, err := aggregates.RehydrateMindMap(m.Snapshot())
	require.NoError(t, err)
	fresh, err := aggregates.NewMindMap(clone.ID(), clone.Title(), "", aggregates.WithClock(testClock))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, fresh))
	assert.True(t, pkgerrors.IsConflict(repo.Commit(ctx)))
}

func TestMindMapRepository_CommitIsAllOrNothing(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository()
	stale := newMap(t, "Stale")
	saveAndCommit(t, repo, stale)

	current, _ := repo.Load(ctx, stale.ID())
	addNode(t, current, "winner")
	saveAndCommit(t, repo, current)

	addNode(t, stale, "loser")
	other := newMap(t, "Other")
	require.NoError(t, repo.Save(ctx, other))
	require.NoError(t, repo.Save(ctx, stale))

	assert.True(t, pkgerrors.IsConflict(repo.Commit(ctx)))

	exists, _ := repo.Exists(ctx, other.ID())
	assert.False(t, exists)

	require.NoError(t, repo.Commit(ctx), "staged writes are discarded after a failed commit")
}

func TestMindMapRepository_InterleavedCallersCommitOnlyTheirOwnWrites(t *testing.T) {
	repo := NewMindMapRepository()
	stale := newMap(t, "Stale")
	saveAndCommit(t, repo, stale)

	current, err := repo.Load(context.Background(), stale.ID())
	require.NoError(t, err)
	addNode(t, current, "winner")
	saveAndCommit(t, repo, current)

	ctxA := ports.BeginUnitOfWork(context.Background())
	ctxB := ports.BeginUnitOfWork(context.Background())

	addNode(t, stale, "loser")
	require.NoError(t, repo.Save(ctxA, stale))
	fresh := newMap(t, "Fresh")
	require.NoError(t, repo.Save(ctxB, fresh))

	assert.True(t, pkgerrors.IsConflict(repo.Commit(ctxA)))
	require.NoError(t, repo.Commit(ctxB))

	stored, err := repo.Load(context.Background(), fresh.ID())
	require.NoError(t, err)
	assert.Equal(t, fresh.ID(), stored.ID())

	winner, err := repo.Load(context.Background(), stale.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, winner.NodeCount())
}

func TestMindMapRepository_WritesRequireUnitOfWork(t *testing.T) {
	repo := NewMindMapRepository()
	m := newMap(t, "Loose")

	err := repo.Save(context.Background(), m)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
	assert.Error(t, repo.Delete(context.Background(), m.ID()))
	require.NoError(t, repo.Commit(context.Background()))

	exists, _ := repo.Exists(context.Background(), m.ID())
	assert.False(t, exists)
}

func TestMindMapRepository_DeleteAndLoadAll(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewMindMapRepository()
	keep := newMap(t, "Keep")
	drop := newMap(t, "Drop")
	saveAndCommit(t, repo, keep)
	saveAndCommit(t, repo, drop)

	require.NoError(t, repo.Delete(ctx, drop.ID()))
	require.NoError(t, repo.Delete(ctx, valueobjects.NewMapID()))
	require.NoError(t, repo.Commit(ctx))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID(), all[0].ID())
}

func TestTimerRepository(t *testing.T) {
	ctx := ports.BeginUnitOfWork(context.Background())
	repo := NewTimerRepository(aggregates.WithClock(testClock))
	mapID := valueobjects.NewMapID()

	running, err := aggregates.NewPomodoroTimer(valueobjects.NewTimerID(), mapID, 25, 5, aggregates.WithClock(testClock))
	require.NoError(t, err)
	require.NoError(t, running.Start())
	elsewhere, err := aggregates.NewPomodoroTimer(valueobjects.NewTimerID(), valueobjects.NewMapID(), 50, 10)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, running))
	require.NoError(t, repo.Save(ctx, elsewhere))
	require.NoError(t, repo.Commit(ctx))
	running.MarkEventsAsCommitted()

	loaded, err := repo.Load(ctx, running.ID())
	require.NoError(t, err)
	assert.Equal(t, aggregates.TimerRunning, loaded.State())
	assert.Equal(t, running.Snapshot(), loaded.Snapshot())

	byMap, err := repo.LoadByMap(ctx, mapID)
	require.NoError(t, err)
	require.Len(t, byMap, 1)
	assert.Equal(t, running.ID(), byMap[0].ID())

	require.NoError(t, loaded.Pause())
	require.NoError(t, repo.Save(ctx, loaded))
	require.NoError(t, repo.Commit(ctx))

	require.NoError(t, running.Pause())
	require.NoError(t, repo.Save(ctx, running))
	assert.True(t, pkgerrors.IsConflict(repo.Commit(ctx)))

	require.NoError(t, repo.Delete(ctx, running.ID()))
	require.NoError(t, repo.Commit(ctx))
	_, err = repo.Load(ctx, running.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}
