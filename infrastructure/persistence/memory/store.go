// Package memory provides in-process repositories backed by plain maps.
// Aggregates are stored as snapshots, so callers never share state with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mappamentis/application/ports"
	pkgerrors "mappamentis/pkg/errors"
)

type stagedWrite[S any] struct {
	id       string
	snapshot S
	expected int
	deleted  bool
}

// store holds committed snapshots; staged writes live in the caller's unit of work
type store[S any] struct {
	mu        sync.RWMutex
	committed map[string]S
	versionOf func(S) int
	kind      string
}

func newStore[S any](kind string, versionOf func(S) int) *store[S] {
	return &store[S]{
		committed: make(map[string]S),
		versionOf: versionOf,
		kind:      kind,
	}
}

func (s *store[S]) get(id string) (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.committed[id]
	return snap, ok
}

// all returns committed snapshots ordered by id
func (s *store[S]) all() []S {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.committed))
	for id := range s.committed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]S, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.committed[id])
	}
	return out
}

func (s *store[S]) stage(ctx context.Context, id string, snap S, expected int) error {
	return s.enqueue(ctx, stagedWrite[S]{id: id, snapshot: snap, expected: expected})
}

func (s *store[S]) stageDelete(ctx context.Context, id string) error {
	return s.enqueue(ctx, stagedWrite[S]{id: id, deleted: true})
}

func (s *store[S]) enqueue(ctx context.Context, w stagedWrite[S]) error {
	if !ports.StageWrite(ctx, s, w) {
		return pkgerrors.NewInternalError(s.kind + " write staged outside a unit of work")
	}
	return nil
}

// commit applies every write the caller staged, or none of them
func (s *store[S]) commit(ctx context.Context) error {
	staged := ports.TakeWrites[stagedWrite[S]](ctx, s)
	if len(staged) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := make(map[string]S, len(staged))
	removed := make(map[string]bool)
	current := func(id string) (S, bool) {
		if removed[id] {
			var zero S
			return zero, false
		}
		if snap, ok := working[id]; ok {
			return snap, true
		}
		snap, ok := s.committed[id]
		return snap, ok
	}

	for _, w := range staged {
		if w.deleted {
			delete(working, w.id)
			removed[w.id] = true
			continue
		}

		stored := 0
		if snap, ok := current(w.id); ok {
			stored = s.versionOf(snap)
		}
		if stored != w.expected {
			return pkgerrors.NewConflictError(fmt.Sprintf("%s %s was modified concurrently", s.kind, w.id)).
				WithDetail("expected_version", w.expected).
				WithDetail("stored_version", stored)
		}

		working[w.id] = w.snapshot
		delete(removed, w.id)
	}

	for id := range removed {
		delete(s.committed, id)
	}
	for id, snap := range working {
		s.committed[id] = snap
	}
	return nil
}
