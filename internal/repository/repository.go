// backend-go/internal/repository/repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Table is a flat collection of one record kind. List returns the most
// recently created records first. Insert with several records is all or
// nothing.
type Table[T domain.Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, records ...T) error
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) (bool, error)
	BulkDelete(ctx context.Context, ids []string) (int, error)
}

// Store groups the three record collections behind one backend.
type Store interface {
	Arrivals() Table[domain.Arrival]
	Transactions() Table[domain.Transaction]
	VasEntries() Table[domain.VasEntry]
	Ping(ctx context.Context) error
	Close() error
}

// LoadSnapshot reads the three record sets concurrently.
func LoadSnapshot(ctx context.Context, s Store) (domain.Snapshot, error) {
	var snap domain.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Arrivals, err = s.Arrivals().List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Transactions, err = s.Transactions().List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Vas, err = s.VasEntries().List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// UniqueIDs drops blanks and duplicates, keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
