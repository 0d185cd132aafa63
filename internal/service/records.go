package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/metrics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository"
	"github.com/google/uuid"
)

// RecordService validates and stamps records of one kind before they reach
// the store.
type RecordService[T domain.Record, PT domain.Mutable[T], P domain.Patch[T]] struct {
	kind     domain.Kind
	table    repository.Table[T]
	fields   func(T) []string
	onChange func(ctx context.Context)
	now      func() time.Time
	newID    func() string
}

type (
	ArrivalService     = RecordService[domain.Arrival, *domain.Arrival, domain.ArrivalPatch]
	TransactionService = RecordService[domain.Transaction, *domain.Transaction, domain.TransactionPatch]
	VasService         = RecordService[domain.VasEntry, *domain.VasEntry, domain.VasPatch]
)

func newRecordService[T domain.Record, PT domain.Mutable[T], P domain.Patch[T]](
	kind domain.Kind,
	table repository.Table[T],
	fields func(T) []string,
	onChange func(ctx context.Context),
) *RecordService[T, PT, P] {
	return &RecordService[T, PT, P]{
		kind:     kind,
		table:    table,
		fields:   fields,
		onChange: onChange,
		now:      time.Now,
		newID:    newRecordID,
	}
}

// newRecordID returns a time-ordered UUIDv7.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *RecordService[T, PT, P]) Kind() domain.Kind { return s.kind }

// List returns the records newest first. A non-blank query keeps the records
// with a searchable field containing it, case-insensitively.
func (s *RecordService[T, PT, P]) List(ctx context.Context, query string) ([]T, error) {
	records, err := s.table.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records, nil
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if s.matches(r, query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RecordService[T, PT, P]) matches(r T, query string) bool {
	for _, f := range s.fields(r) {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// Select returns the records whose id is in ids, in List order. An empty
// ids selects every record.
func (s *RecordService[T, PT, P]) Select(ctx context.Context, ids []string) ([]T, error) {
	records, err := s.table.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}
	ids = repository.UniqueIDs(ids)
	if len(ids) == 0 {
		return records, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]T, 0, len(ids))
	for _, r := range records {
		if _, ok := wanted[r.RecordID()]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RecordService[T, PT, P]) Get(ctx context.Context, id string) (T, error) {
	return s.table.Get(ctx, id)
}

// Prepare normalizes and validates rec and assigns it a fresh id and
// creation time.
func (s *RecordService[T, PT, P]) Prepare(rec T) (T, error) {
	var zero T
	p := PT(&rec)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return zero, err
	}
	p.Stamp(s.newID(), s.now())
	return rec, nil
}

func (s *RecordService[T, PT, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	rec, err := s.Prepare(rec)
	if err != nil {
		return zero, err
	}
	if err := s.table.Insert(ctx, rec); err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}
	s.changed(ctx, "create", 1)
	return rec, nil
}

// CreateMany inserts already prepared records as one unit.
func (s *RecordService[T, PT, P]) CreateMany(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.table.Insert(ctx, records...); err != nil {
		return fmt.Errorf("failed to insert %s: %w", s.kind, err)
	}
	s.changed(ctx, "import", len(records))
	return nil
}

// Update applies patch to the stored record. The id and creation time never
// change.
func (s *RecordService[T, PT, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	rec, err := s.table.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	patch.Apply(&rec)
	p := PT(&rec)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return zero, err
	}
	p.Touch(s.now())

	if err := s.table.Update(ctx, rec); err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", s.kind, err)
	}
	s.changed(ctx, "update", 1)
	return rec, nil
}

// Delete removes a record. Deleting a missing id is not an error.
func (s *RecordService[T, PT, P]) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.table.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", s.kind, err)
	}
	if deleted {
		s.changed(ctx, "delete", 1)
	}
	return deleted, nil
}

// BulkDelete removes every listed record and reports how many existed.
func (s *RecordService[T, PT, P]) BulkDelete(ctx context.Context, ids []string) (int, error) {
	ids = repository.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.table.BulkDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete %s: %w", s.kind, err)
	}
	if n > 0 {
		s.changed(ctx, "bulk_delete", n)
	}
	return n, nil
}

func (s *RecordService[T, PT, P]) changed(ctx context.Context, op string, n int) {
	metrics.RecordMutations.WithLabelValues(string(s.kind), op).Add(float64(n))
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

func arrivalFields(a domain.Arrival) []string {
	return []string{a.ReceiptNo, a.Brand, a.PONo, a.Date}
}

func transactionFields(t domain.Transaction) []string {
	return []string{t.ReceiptNo, t.SKU, string(t.OperateType), t.Operator}
}

func vasFields(v domain.VasEntry) []string {
	return []string{v.Brand, v.SKU, v.VasType, v.Operator}
}
