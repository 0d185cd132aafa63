package vastask

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/analytics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager() (*Manager, *fakeClock) {
	analytics.SetLocation(time.UTC)
	clock := &fakeClock{t: time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC)}
	seq := 0
	m := NewManager(
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("task-%d", seq)
		}),
	)
	return m, clock
}

func finishedTask(t *testing.T, m *Manager, clock *fakeClock) Task {
	t.Helper()
	task := m.Start()
	mustOK(t)(m.SetOperator(task.ID, "Ann"))
	mustOK(t)(m.SetVasType(task.ID, "Labeling"))
	mustOK(t)(m.UpdateLine(task.ID, 0, Line{Brand: "Nike", SKU: "S1"}))
	mustOK(t)(m.AddLine(task.ID, Line{Brand: "Adidas", SKU: "S2"}))
	clock.Advance(90*time.Minute + 5*time.Second)
	finished, err := m.Finish(task.ID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return finished
}

func mustOK(t *testing.T) func(Task, error) {
	return func(_ Task, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestManager_StartHasOneEmptyLine(t *testing.T) {
	m, _ := newTestManager()
	task := m.Start()

	if task.State != StateActive {
		t.Fatalf("State = %s, want active", task.State)
	}
	if len(task.Lines) != 1 || task.Lines[0] != (Line{}) {
		t.Fatalf("Lines = %+v, want one empty line", task.Lines)
	}
}

func TestManager_RemoveLineKeepsLastLine(t *testing.T) {
	m, _ := newTestManager()
	task := m.Start()

	got, err := m.RemoveLine(task.ID, 0)
	if err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("Lines = %d, want 1", len(got.Lines))
	}

	mustOK(t)(m.AddLine(task.ID, Line{Brand: "B", SKU: "2"}))
	got, err = m.RemoveLine(task.ID, 0)
	if err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].SKU != "2" {
		t.Fatalf("Lines = %+v", got.Lines)
	}
}

func TestManager_FinishValidation(t *testing.T) {
	m, _ := newTestManager()
	task := m.Start()

	if _, err := m.Finish(task.ID); !domain.IsValidation(err) {
		t.Fatalf("Finish without operator: err = %v, want validation error", err)
	}

	mustOK(t)(m.SetOperator(task.ID, "  "))
	mustOK(t)(m.SetVasType(task.ID, "Repack"))
	if _, err := m.Finish(task.ID); !domain.IsValidation(err) {
		t.Fatalf("Finish with blank operator: err = %v, want validation error", err)
	}

	mustOK(t)(m.SetOperator(task.ID, "Bob"))
	mustOK(t)(m.UpdateLine(task.ID, 0, Line{Brand: "Nike"}))
	if _, err := m.Finish(task.ID); !domain.IsValidation(err) {
		t.Fatalf("Finish with blank sku: err = %v, want validation error", err)
	}

	got, _ := m.Get(task.ID)
	if got.State != StateActive {
		t.Fatalf("State = %s, want active after failed finish", got.State)
	}
}

func TestManager_FinishFreezesDuration(t *testing.T) {
	m, clock := newTestManager()
	task := finishedTask(t, m, clock)

	if task.State != StateFinished || task.Duration != "01:30:05" {
		t.Fatalf("task = %+v", task)
	}

	clock.Advance(time.Hour)
	elapsed, err := m.Elapsed(task.ID)
	if err != nil {
		t.Fatalf("Elapsed: %v", err)
	}
	if elapsed != 90*time.Minute+5*time.Second {
		t.Errorf("Elapsed = %v after finish, want frozen duration", elapsed)
	}

	if _, err := m.AddLine(task.ID, Line{}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("AddLine on finished task: err = %v, want ErrInvalidTransition", err)
	}
	if err := m.Cancel(task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("Cancel on finished task: err = %v, want ErrInvalidTransition", err)
	}
}

func TestManager_CommitCreatesOneEntryPerLine(t *testing.T) {
	m, clock := newTestManager()
	task := finishedTask(t, m, clock)

	var saved []domain.VasEntry
	entries, err := m.Commit(context.Background(), task.ID, []int{5, 10}, func(_ context.Context, e []domain.VasEntry) error {
		saved = e
		return nil
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(entries) != 2 || len(saved) != 2 {
		t.Fatalf("got %d entries, saved %d, want 2", len(entries), len(saved))
	}

	first, second := entries[0], entries[1]
	if first.Operator != "Ann" || first.VasType != "Labeling" || first.Duration != "01:30:05" {
		t.Errorf("unexpected header fields %+v", first)
	}
	if first.StartTime != "2/3/2024 09:00:00" || first.EndTime != "2/3/2024 10:30:05" || first.Date != "2024-02-03" {
		t.Errorf("unexpected times %+v", first)
	}
	if first.Operator != second.Operator || first.VasType != second.VasType ||
		first.StartTime != second.StartTime || first.EndTime != second.EndTime || first.Duration != second.Duration {
		t.Errorf("entries do not share header fields: %+v vs %+v", first, second)
	}
	if first.Qty != 5 || first.SKU != "S1" || second.Qty != 10 || second.Brand != "Adidas" {
		t.Errorf("unexpected line fields %+v / %+v", first, second)
	}

	if _, err := m.Get(task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("task still present after commit: %v", err)
	}
}

func TestManager_CommitIsAtomic(t *testing.T) {
	m, clock := newTestManager()
	task := finishedTask(t, m, clock)

	calls := 0
	persist := func(context.Context, []domain.VasEntry) error {
		calls++
		return nil
	}

	if _, err := m.Commit(context.Background(), task.ID, []int{5, 0}, persist); !domain.IsValidation(err) {
		t.Fatalf("Commit with zero qty: err = %v, want validation error", err)
	}
	if _, err := m.Commit(context.Background(), task.ID, []int{5}, persist); !domain.IsValidation(err) {
		t.Fatalf("Commit with missing qty: err = %v, want validation error", err)
	}
	if calls != 0 {
		t.Fatalf("persist called %d times, want 0", calls)
	}

	got, err := m.Get(task.ID)
	if err != nil || got.State != StateFinished {
		t.Fatalf("task = %+v, err = %v, want finished", got, err)
	}
}

func TestManager_CommitKeepsTaskWhenPersistFails(t *testing.T) {
	m, clock := newTestManager()
	task := finishedTask(t, m, clock)

	boom := errors.New("store down")
	_, err := m.Commit(context.Background(), task.ID, []int{1, 2}, func(context.Context, []domain.VasEntry) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	got, err := m.Get(task.ID)
	if err != nil || got.State != StateFinished {
		t.Fatalf("task = %+v, err = %v, want finished", got, err)
	}
}

func TestManager_CommitRequiresFinished(t *testing.T) {
	m, _ := newTestManager()
	task := m.Start()

	_, err := m.Commit(context.Background(), task.ID, []int{1}, func(context.Context, []domain.VasEntry) error { return nil })
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestManager_CancelAndDiscard(t *testing.T) {
	m, clock := newTestManager()

	active := m.Start()
	if err := m.Discard(active.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Discard active: err = %v", err)
	}
	if err := m.Cancel(active.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	finished := finishedTask(t, m, clock)
	if err := m.Discard(finished.ID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(m.List()) != 0 {
		t.Fatalf("expected no tasks left, got %d", len(m.List()))
	}
	if err := m.Cancel("missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Cancel missing: err = %v", err)
	}
}

func TestManager_TasksAreIndependent(t *testing.T) {
	m, clock := newTestManager()
	a := m.Start()
	clock.Advance(time.Minute)
	b := m.Start()

	mustOK(t)(m.SetOperator(a.ID, "Ann"))

	gotB, _ := m.Get(b.ID)
	if gotB.Operator != "" {
		t.Fatalf("operator leaked across tasks: %+v", gotB)
	}

	list := m.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("List order = %+v", list)
	}
	if gotB.Elapsed != "00:00:00" {
		t.Errorf("Elapsed = %q", gotB.Elapsed)
	}
	gotA, _ := m.Get(a.ID)
	if gotA.Elapsed != "00:01:00" {
		t.Errorf("Elapsed = %q", gotA.Elapsed)
	}

	counts := m.Count()
	if counts[StateActive] != 2 || counts[StateFinished] != 0 {
		t.Errorf("Count = %v", counts)
	}
}
