package fallback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository/local"
	"github.com/rs/zerolog/log"
)

// Store serves every operation from the remote store while it is reachable
// and from the local cache otherwise. A read never mixes both. After each
// successful remote mutation the local cache is replaced with a fresh copy
// of all three remote record sets.
type Store struct {
	remote       repository.Store
	cache        *local.Store
	probeTimeout time.Duration

	mu       sync.RWMutex
	online   bool
	onChange []func(online bool)

	// refreshMu orders mutation+refresh units so a refresh never
	// interleaves with another mutation's refresh.
	refreshMu sync.Mutex

	arrivals     *table[domain.Arrival]
	transactions *table[domain.Transaction]
	vas          *table[domain.VasEntry]
}

var _ repository.Store = (*Store)(nil)

// New wires remote (which may be nil) in front of cache. The store starts
// offline until Probe succeeds.
func New(remote repository.Store, cache *local.Store, probeTimeout time.Duration) *Store {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	s := &Store{remote: remote, cache: cache, probeTimeout: probeTimeout}

	var ra repository.Table[domain.Arrival]
	var rt repository.Table[domain.Transaction]
	var rv repository.Table[domain.VasEntry]
	if remote != nil {
		ra, rt, rv = remote.Arrivals(), remote.Transactions(), remote.VasEntries()
	}
	s.arrivals = &table[domain.Arrival]{store: s, remote: ra, local: cache.Arrivals()}
	s.transactions = &table[domain.Transaction]{store: s, remote: rt, local: cache.Transactions()}
	s.vas = &table[domain.VasEntry]{store: s, remote: rv, local: cache.VasEntries()}
	return s
}

// OnStateChange registers fn to run whenever the active backend flips.
func (s *Store) OnStateChange(fn func(online bool)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Probe checks the remote store within the probe timeout. When reachable the
// local cache is resynchronised from it, after any in-flight mutation and
// its refresh.
func (s *Store) Probe(ctx context.Context) bool {
	if s.remote == nil {
		return false
	}

	pctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	err := s.remote.Ping(pctx)
	cancel()
	if err != nil {
		s.setOnline(false, err)
		return false
	}

	s.setOnline(true, nil)
	s.refreshMu.Lock()
	err = s.Refresh(ctx)
	s.refreshMu.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("initial sync from remote store failed")
	}
	return s.Online()
}

// Online reports whether operations currently go to the remote store.
func (s *Store) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// Backend names the active backend.
func (s *Store) Backend() string {
	if s.Online() {
		return "remote"
	}
	return "local"
}

// Refresh replaces the local cache wholesale with the remote record sets.
func (s *Store) Refresh(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	snap, err := repository.LoadSnapshot(ctx, s.remote)
	if err != nil {
		s.degrade(ctx, err)
		return err
	}
	return s.cache.Replace(snap)
}

func (s *Store) Arrivals() repository.Table[domain.Arrival] { return s.arrivals }

func (s *Store) Transactions() repository.Table[domain.Transaction] { return s.transactions }

func (s *Store) VasEntries() repository.Table[domain.VasEntry] { return s.vas }

func (s *Store) Ping(ctx context.Context) error {
	if s.Online() {
		return s.remote.Ping(ctx)
	}
	return s.cache.Ping(ctx)
}

func (s *Store) Close() error {
	var err error
	if s.remote != nil {
		err = s.remote.Close()
	}
	return errors.Join(err, s.cache.Close())
}

// degrade decides whether err means the remote store is gone. It pings with
// the probe timeout and switches to the local cache when that fails.
func (s *Store) degrade(ctx context.Context, err error) bool {
	if errors.Is(err, domain.ErrNotFound) || domain.IsValidation(err) {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.probeTimeout)
	defer cancel()
	if pingErr := s.remote.Ping(pctx); pingErr == nil {
		return false
	}
	s.setOnline(false, err)
	return true
}

func (s *Store) setOnline(online bool, cause error) {
	s.mu.Lock()
	changed := s.online != online
	s.online = online
	hooks := append(([]func(bool))(nil), s.onChange...)
	s.mu.Unlock()

	if !changed {
		return
	}
	if online {
		log.Info().Msg("remote store reachable, using remote backend")
	} else {
		log.Warn().Err(cause).Msg("remote store unreachable, falling back to local cache")
	}
	for _, fn := range hooks {
		fn(online)
	}
}
