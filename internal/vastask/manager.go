package vastask

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/analytics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/google/uuid"
)

// CommitFunc persists the entries of a committed task as one unit.
type CommitFunc func(ctx context.Context, entries []domain.VasEntry) error

// Manager holds every active and finished task keyed by id.
type Manager struct {
	mu    sync.Mutex
	tasks map[string]*Task
	now   func() time.Time
	newID func() string
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		tasks: make(map[string]*Task),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens an active task with a single empty line.
func (m *Manager) Start() Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &Task{
		ID:        m.newID(),
		State:     StateActive,
		Lines:     []Line{{}},
		StartedAt: m.now(),
	}
	m.tasks[t.ID] = t
	return m.view(t)
}

func (m *Manager) Get(id string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, domain.ErrTaskNotFound
	}
	return m.view(t), nil
}

// List returns every task, oldest first.
func (m *Manager) List() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, m.view(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Count returns the number of tasks per state.
func (m *Manager) Count() map[State]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := map[State]int{StateActive: 0, StateFinished: 0}
	for _, t := range m.tasks {
		out[t.State]++
	}
	return out
}

func (m *Manager) SetOperator(id, operator string) (Task, error) {
	return m.mutateActive(id, func(t *Task) error {
		t.Operator = operator
		return nil
	})
}

func (m *Manager) SetVasType(id, vasType string) (Task, error) {
	return m.mutateActive(id, func(t *Task) error {
		t.VasType = vasType
		return nil
	})
}

func (m *Manager) AddLine(id string, line Line) (Task, error) {
	return m.mutateActive(id, func(t *Task) error {
		t.Lines = append(t.Lines, line)
		return nil
	})
}

func (m *Manager) UpdateLine(id string, idx int, line Line) (Task, error) {
	return m.mutateActive(id, func(t *Task) error {
		if idx < 0 || idx >= len(t.Lines) {
			return domain.NewValidationError("line", "index out of range")
		}
		t.Lines[idx] = line
		return nil
	})
}

// RemoveLine drops the line at idx. The last remaining line is kept.
func (m *Manager) RemoveLine(id string, idx int) (Task, error) {
	return m.mutateActive(id, func(t *Task) error {
		if idx < 0 || idx >= len(t.Lines) {
			return domain.NewValidationError("line", "index out of range")
		}
		if len(t.Lines) <= 1 {
			return nil
		}
		t.Lines = append(t.Lines[:idx], t.Lines[idx+1:]...)
		return nil
	})
}

// Finish moves an active task to finished, freezing its end time and
// duration. The task stays active when validation fails.
func (m *Manager) Finish(id string) (Task, error) {
	return m.mutateActive(id, func(t *Task) error {
		if err := t.validateFinish(); err != nil {
			return err
		}
		end := m.now()
		t.EndedAt = &end
		t.Duration = analytics.FormatClock(end.Sub(t.StartedAt))
		t.State = StateFinished
		return nil
	})
}

// Commit turns a finished task into one VasEntry per line through persist
// and removes it. Nothing is persisted and the task stays finished when any
// quantity is not positive or persist fails.
func (m *Manager) Commit(ctx context.Context, id string, quantities []int, persist CommitFunc) ([]domain.VasEntry, error) {
	m.mu.Lock()
	t, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return nil, domain.ErrTaskNotFound
	}
	if t.State != StateFinished || t.committing {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot commit %s task", domain.ErrInvalidTransition, t.State)
	}
	if len(quantities) != len(t.Lines) {
		m.mu.Unlock()
		return nil, domain.NewValidationError("quantities", fmt.Sprintf("expected %d values, got %d", len(t.Lines), len(quantities)))
	}
	for i, q := range quantities {
		if q <= 0 {
			m.mu.Unlock()
			return nil, domain.NewValidationError("quantities", lineMessage(i, "quantity must be positive"))
		}
	}
	entries := t.entries(quantities)
	t.committing = true
	m.mu.Unlock()

	err := persist(ctx, entries)

	m.mu.Lock()
	defer m.mu.Unlock()
	t.committing = false
	if err != nil {
		return nil, fmt.Errorf("failed to commit vas task: %w", err)
	}
	delete(m.tasks, id)
	return entries, nil
}

// Cancel drops an active task.
func (m *Manager) Cancel(id string) error {
	return m.remove(id, StateActive)
}

// Discard drops a finished task without creating entries.
func (m *Manager) Discard(id string) error {
	return m.remove(id, StateFinished)
}

// Elapsed is the running time of an active task or the frozen duration of a
// finished one.
func (m *Manager) Elapsed(id string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return 0, domain.ErrTaskNotFound
	}
	return t.elapsed(m.now()), nil
}

func (m *Manager) remove(id string, want State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if t.State != want || t.committing {
		return fmt.Errorf("%w: task is %s", domain.ErrInvalidTransition, t.State)
	}
	delete(m.tasks, id)
	return nil
}

func (m *Manager) mutateActive(id string, fn func(*Task) error) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, domain.ErrTaskNotFound
	}
	if t.State != StateActive {
		return Task{}, fmt.Errorf("%w: task is %s", domain.ErrInvalidTransition, t.State)
	}
	if err := fn(t); err != nil {
		return Task{}, err
	}
	return m.view(t), nil
}

func (m *Manager) view(t *Task) Task {
	c := t.clone()
	c.Elapsed = analytics.FormatClock(t.elapsed(m.now()))
	return c
}

func lineMessage(idx int, msg string) string {
	return "line " + strconv.Itoa(idx+1) + ": " + msg
}
