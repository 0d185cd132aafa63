package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
)

// Store is the local durable cache: one JSON file per record kind under dir.
type Store struct {
	dir          string
	arrivals     *Table[domain.Arrival]
	transactions *Table[domain.Transaction]
	vas          *Table[domain.VasEntry]
}

var _ repository.Store = (*Store)(nil)

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local store dir: %w", err)
	}

	arrivals, err := openTable[domain.Arrival](filepath.Join(dir, "arrivals.json"))
	if err != nil {
		return nil, err
	}
	transactions, err := openTable[domain.Transaction](filepath.Join(dir, "transactions.json"))
	if err != nil {
		return nil, err
	}
	vas, err := openTable[domain.VasEntry](filepath.Join(dir, "vas.json"))
	if err != nil {
		return nil, err
	}

	return &Store{dir: dir, arrivals: arrivals, transactions: transactions, vas: vas}, nil
}

func (s *Store) Arrivals() repository.Table[domain.Arrival] { return s.arrivals }

func (s *Store) Transactions() repository.Table[domain.Transaction] { return s.transactions }

func (s *Store) VasEntries() repository.Table[domain.VasEntry] { return s.vas }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error {
	return errors.Join(s.arrivals.Close(), s.transactions.Close(), s.vas.Close())
}

// Replace overwrites all three collections with snap.
func (s *Store) Replace(snap domain.Snapshot) error {
	if err := s.arrivals.ReplaceAll(snap.Arrivals); err != nil {
		return err
	}
	if err := s.transactions.ReplaceAll(snap.Transactions); err != nil {
		return err
	}
	return s.vas.ReplaceAll(snap.Vas)
}
