package uow

import (
	"context"

	"github.com/aerotix/aerotix/internal/repository"
)

// AfterCommit is a function that runs after a successful commit. Cache
// invalidation and event publication go through these hooks so they never
// fire for an aborted scope.
type AfterCommit func(ctx context.Context)

// UoW runs units of work against a repository.Store's atomic scope.
type UoW struct {
	store repository.Store
}

func NewUoW(store repository.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside one atomic scope. After a successful commit, it
// executes all registered after-commit hooks in order.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, s repository.Store, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.Atomic(ctx, func(ctx context.Context, s repository.Store) error {
		return fn(ctx, s, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
