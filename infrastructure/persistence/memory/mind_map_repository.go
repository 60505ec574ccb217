package memory

import (
	"context"

	"mappamentis/application/ports"
	"mappamentis/domain/core/aggregates"
	"mappamentis/domain/core/valueobjects"
	pkgerrors "mappamentis/pkg/errors"
)

// MindMapRepository keeps mind maps in memory
type MindMapRepository struct {
	store *store[aggregates.MindMapSnapshot]
	opts  []aggregates.Option
}

// NewMindMapRepository creates an empty repository; opts are applied to every loaded map
func NewMindMapRepository(opts ...aggregates.Option) *MindMapRepository {
	return &MindMapRepository{
		store: newStore("mind map", func(s aggregates.MindMapSnapshot) int { return s.Version }),
		opts:  opts,
	}
}

// Load retrieves a map by its ID
func (r *MindMapRepository) Load(ctx context.Context, id valueobjects.MapID) (*aggregates.MindMap, error) {
	snap, ok := r.store.get(id.String())
	if !ok {
		return nil, pkgerrors.NewNotFoundError("mind map").WithDetail("id", id.String())
	}
	return aggregates.RehydrateMindMap(snap, r.opts...)
}

// LoadAll retrieves every stored map
func (r *MindMapRepository) LoadAll(ctx context.Context) ([]*aggregates.MindMap, error) {
	snaps := r.store.all()
	maps := make([]*aggregates.MindMap, 0, len(snaps))
	for _, snap := range snaps {
		m, err := aggregates.RehydrateMindMap(snap, r.opts...)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// Save stages a map in the caller's unit of work
func (r *MindMapRepository) Save(ctx context.Context, mindMap *aggregates.MindMap) error {
	if mindMap == nil {
		return pkgerrors.NewInvalidArgumentError("mind map cannot be nil")
	}
	return r.store.stage(ctx, mindMap.ID().String(), mindMap.Snapshot(), mindMap.PersistedVersion())
}

// Delete stages removal of a map
func (r *MindMapRepository) Delete(ctx context.Context, id valueobjects.MapID) error {
	return r.store.stageDelete(ctx, id.String())
}

// Exists checks whether a map is stored
func (r *MindMapRepository) Exists(ctx context.Context, id valueobjects.MapID) (bool, error) {
	_, ok := r.store.get(id.String())
	return ok, nil
}

// Commit flushes the writes staged in the caller's unit of work
func (r *MindMapRepository) Commit(ctx context.Context) error {
	return r.store.commit(ctx)
}

var _ ports.MindMapRepository = (*MindMapRepository)(nil)
