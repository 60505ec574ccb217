package ports

import (
	"context"
	"sync"
)

// UnitOfWork holds the writes one caller has staged, grouped by the repository that staged them.
// Repositories flush and clear only their own group on Commit.
type UnitOfWork struct {
	mu     sync.Mutex
	staged map[any][]any
}

type unitOfWorkKey struct{}

// BeginUnitOfWork returns a context carrying a fresh unit of work.
// Repository Save and Delete calls must use a context derived from it.
func BeginUnitOfWork(ctx context.Context) context.Context {
	return context.WithValue(ctx, unitOfWorkKey{}, &UnitOfWork{staged: make(map[any][]any)})
}

// UnitOfWorkFrom returns the unit of work carried by ctx, if any
func UnitOfWorkFrom(ctx context.Context) (*UnitOfWork, bool) {
	uow, ok := ctx.Value(unitOfWorkKey{}).(*UnitOfWork)
	return uow, ok
}

func (u *UnitOfWork) stage(owner, write any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged[owner] = append(u.staged[owner], write)
}

func (u *UnitOfWork) take(owner any) []any {
	u.mu.Lock()
	defer u.mu.Unlock()
	writes := u.staged[owner]
	delete(u.staged, owner)
	return writes
}

// StageWrite adds write to owner's group in the unit of work carried by ctx.
// It returns false when ctx carries no unit of work.
func StageWrite[W any](ctx context.Context, owner any, write W) bool {
	uow, ok := UnitOfWorkFrom(ctx)
	if !ok {
		return false
	}
	uow.stage(owner, write)
	return true
}

// TakeWrites removes and returns owner's staged writes from the unit of work carried by ctx
func TakeWrites[W any](ctx context.Context, owner any) []W {
	uow, ok := UnitOfWorkFrom(ctx)
	if !ok {
		return nil
	}
	raw := uow.take(owner)
	out := make([]W, 0, len(raw))
	for _, w := range raw {
		if typed, ok := w.(W); ok {
			out = append(out, typed)
		}
	}
	return out
}
