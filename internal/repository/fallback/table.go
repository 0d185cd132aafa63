package fallback

import (
	"context"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type table[T domain.Record] struct {
	store  *Store
	remote repository.Table[T]
	local  repository.Table[T]
}

func (t *table[T]) useRemote() bool {
	return t.remote != nil && t.store.Online()
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	if t.useRemote() {
		out, err := t.remote.List(ctx)
		if err == nil || !t.store.degrade(ctx, err) {
			return out, err
		}
	}
	return t.local.List(ctx)
}

func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	if t.useRemote() {
		out, err := t.remote.Get(ctx, id)
		if err == nil || !t.store.degrade(ctx, err) {
			return out, err
		}
	}
	return t.local.Get(ctx, id)
}

func (t *table[T]) Insert(ctx context.Context, records ...T) error {
	return mutate(ctx, t,
		func() error { return t.remote.Insert(ctx, records...) },
		func() error { return t.local.Insert(ctx, records...) })
}

func (t *table[T]) Update(ctx context.Context, record T) error {
	return mutate(ctx, t,
		func() error { return t.remote.Update(ctx, record) },
		func() error { return t.local.Update(ctx, record) })
}

func (t *table[T]) Delete(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := mutate(ctx, t,
		func() (err error) {
			removed, err = t.remote.Delete(ctx, id)
			return err
		},
		func() (err error) {
			removed, err = t.local.Delete(ctx, id)
			return err
		})
	return removed, err
}

func (t *table[T]) BulkDelete(ctx context.Context, ids []string) (int, error) {
	var n int
	err := mutate(ctx, t,
		func() (err error) {
			n, err = t.remote.BulkDelete(ctx, ids)
			return err
		},
		func() (err error) {
			n, err = t.local.BulkDelete(ctx, ids)
			return err
		})
	return n, err
}

// mutate runs remoteOp then refreshes the local cache, or runs localOp when
// the remote store is offline or turns out to be unreachable.
func mutate[T domain.Record](ctx context.Context, t *table[T], remoteOp, localOp func() error) error {
	if t.useRemote() {
		t.store.refreshMu.Lock()
		defer t.store.refreshMu.Unlock()

		err := remoteOp()
		if err == nil {
			if rerr := t.store.Refresh(ctx); rerr != nil {
				log.Warn().Err(rerr).Msg("failed to refresh local cache after remote write")
			}
			return nil
		}
		if !t.store.degrade(ctx, err) {
			return err
		}
	}
	return localOp()
}
