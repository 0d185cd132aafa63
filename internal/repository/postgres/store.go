package postgres

import (
	"context"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
)

var (
	arrivalColumns = []string{
		"id", "date", "arrival_time", "brand", "receipt_no", "po_no", "po_qty",
		"operator", "note", "created_at", "updated_at",
	}
	transactionColumns = []string{
		"id", "date", "time_transaction", "receipt_no", "sku", "operate_type", "qty",
		"operator", "created_at", "updated_at",
	}
	vasColumns = []string{
		"id", "date", "start_time", "end_time", "duration", "brand", "sku", "vas_type",
		"qty", "operator", "created_at", "updated_at",
	}
)

// Store is the remote Record Store backed by PostgreSQL.
type Store struct {
	db           *DB
	arrivals     *table[domain.Arrival]
	transactions *table[domain.Transaction]
	vas          *table[domain.VasEntry]
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *DB) *Store {
	return &Store{
		db:           db,
		arrivals:     newTable[domain.Arrival](db, "arrivals", arrivalColumns),
		transactions: newTable[domain.Transaction](db, "transactions", transactionColumns),
		vas:          newTable[domain.VasEntry](db, "vas_entries", vasColumns),
	}
}

func (s *Store) Arrivals() repository.Table[domain.Arrival] { return s.arrivals }

func (s *Store) Transactions() repository.Table[domain.Transaction] { return s.transactions }

func (s *Store) VasEntries() repository.Table[domain.VasEntry] { return s.vas }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }
