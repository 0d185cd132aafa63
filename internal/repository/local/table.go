package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// Table keeps one record kind in memory and mirrors every write to a JSON
// file. Writes are serialized per table, across processes too: a sibling
// lock file is held while the file is reread and rewritten, so several
// binaries sharing one directory never drop each other's writes. Reads pick
// up changes made by other processes. A failed write leaves both the memory
// and the file unchanged.
type Table[T domain.Record] struct {
	mu      sync.Mutex
	path    string
	fl      *flock.Flock
	records []T

	modTime time.Time
	size    int64
}

var _ repository.Table[domain.Arrival] = (*Table[domain.Arrival])(nil)

func openTable[T domain.Record](path string) (*Table[T], error) {
	t := &Table[T]{path: path, fl: flock.New(path + ".lock"), records: make([]T, 0)}
	if err := t.shared(func() error { return t.reload(true) }); err != nil {
		return nil, err
	}
	return t, nil
}

// exclusive runs fn holding the in-process mutex and the file lock, after
// rereading the file unconditionally.
func (t *Table[T]) exclusive(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.fl.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", t.path, err)
	}
	defer t.fl.Unlock()

	if err := t.reload(true); err != nil {
		return err
	}
	return fn()
}

// shared runs fn under a shared file lock, rereading the file when another
// process changed it.
func (t *Table[T]) shared(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.fl.RLock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", t.path, err)
	}
	defer t.fl.Unlock()

	if err := t.reload(false); err != nil {
		return err
	}
	return fn()
}

// reload reads the file into memory. Unless force is set it is skipped when
// the file looks unchanged since the last read or write.
func (t *Table[T]) reload(force bool) error {
	info, err := os.Stat(t.path)
	if errors.Is(err, os.ErrNotExist) {
		t.records = make([]T, 0)
		t.modTime, t.size = time.Time{}, 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", t.path, err)
	}
	if !force && info.ModTime().Equal(t.modTime) && info.Size() == t.size {
		return nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.path, err)
	}
	records := make([]T, 0)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			log.Warn().Err(err).Str("path", t.path).Msg("local cache file is unreadable, starting empty")
			records = make([]T, 0)
		}
	}
	t.records = records
	t.modTime, t.size = info.ModTime(), info.Size()
	return nil
}

// Close releases the lock file handle.
func (t *Table[T]) Close() error {
	return t.fl.Close()
}

func (t *Table[T]) List(_ context.Context) ([]T, error) {
	var out []T
	err := t.shared(func() error {
		out = make([]T, 0, len(t.records))
		for i := len(t.records) - 1; i >= 0; i-- {
			out = append(out, t.records[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created().After(out[j].Created())
	})
	return out, nil
}

func (t *Table[T]) Get(_ context.Context, id string) (T, error) {
	var out T
	err := t.shared(func() error {
		i := t.indexOf(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		out = t.records[i]
		return nil
	})
	return out, err
}

func (t *Table[T]) Insert(_ context.Context, records ...T) error {
	if len(records) == 0 {
		return nil
	}
	return t.exclusive(func() error {
		for _, rec := range records {
			if t.indexOf(rec.RecordID()) >= 0 {
				return fmt.Errorf("record %s already exists", rec.RecordID())
			}
		}
		next := make([]T, 0, len(t.records)+len(records))
		next = append(next, t.records...)
		next = append(next, records...)
		return t.commit(next)
	})
}

func (t *Table[T]) Update(_ context.Context, record T) error {
	return t.exclusive(func() error {
		i := t.indexOf(record.RecordID())
		if i < 0 {
			return domain.ErrNotFound
		}
		next := append([]T(nil), t.records...)
		next[i] = record
		return t.commit(next)
	})
}

func (t *Table[T]) Delete(_ context.Context, id string) (bool, error) {
	var removed bool
	err := t.exclusive(func() error {
		i := t.indexOf(id)
		if i < 0 {
			return nil
		}
		next := make([]T, 0, len(t.records)-1)
		next = append(next, t.records[:i]...)
		next = append(next, t.records[i+1:]...)
		if err := t.commit(next); err != nil {
			return err
		}
		removed = true
		return nil
	})
	return removed, err
}

func (t *Table[T]) BulkDelete(_ context.Context, ids []string) (int, error) {
	ids = repository.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var removed int
	err := t.exclusive(func() error {
		next := make([]T, 0, len(t.records))
		for _, rec := range t.records {
			if _, ok := drop[rec.RecordID()]; !ok {
				next = append(next, rec)
			}
		}
		n := len(t.records) - len(next)
		if n == 0 {
			return nil
		}
		if err := t.commit(next); err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ReplaceAll swaps the whole collection. records are expected newest first,
// as returned by List on another backend.
func (t *Table[T]) ReplaceAll(records []T) error {
	next := make([]T, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		next = append(next, records[i])
	}
	return t.exclusive(func() error { return t.commit(next) })
}

func (t *Table[T]) indexOf(id string) int {
	for i, rec := range t.records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// commit writes next to disk and only then makes it the live state. The
// caller holds the file lock.
func (t *Table[T]) commit(next []T) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(t.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", t.path, err)
	}

	t.records = next
	if info, err := os.Stat(t.path); err == nil {
		t.modTime, t.size = info.ModTime(), info.Size()
	}
	return nil
}
