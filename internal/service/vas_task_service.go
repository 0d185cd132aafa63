package service

import (
	"context"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/metrics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/vastask"
	"github.com/rs/zerolog/log"
)

// VasTaskService drives in-memory VAS tasks and persists committed ones as
// VAS entries.
type VasTaskService struct {
	tasks   *vastask.Manager
	inbound *InboundService
}

func NewVasTaskService(tasks *vastask.Manager, inbound *InboundService) *VasTaskService {
	if tasks == nil {
		tasks = vastask.NewManager()
	}
	return &VasTaskService{tasks: tasks, inbound: inbound}
}

// TaskUpdate carries the header fields of a task; nil fields are left alone.
type TaskUpdate struct {
	Operator *string `json:"operator"`
	VasType  *string `json:"vas_type"`
}

func (s *VasTaskService) List() []vastask.Task {
	return s.tasks.List()
}

func (s *VasTaskService) Start() vastask.Task {
	t := s.tasks.Start()
	s.observe()
	log.Debug().Str("task_id", t.ID).Msg("vas task started")
	return t
}

func (s *VasTaskService) Get(id string) (vastask.Task, error) {
	return s.tasks.Get(id)
}

func (s *VasTaskService) Update(id string, upd TaskUpdate) (vastask.Task, error) {
	t, err := s.tasks.Get(id)
	if err != nil {
		return vastask.Task{}, err
	}
	if upd.Operator != nil {
		if t, err = s.tasks.SetOperator(id, *upd.Operator); err != nil {
			return vastask.Task{}, err
		}
	}
	if upd.VasType != nil {
		if t, err = s.tasks.SetVasType(id, *upd.VasType); err != nil {
			return vastask.Task{}, err
		}
	}
	return t, nil
}

func (s *VasTaskService) AddLine(id string, line vastask.Line) (vastask.Task, error) {
	return s.tasks.AddLine(id, line)
}

func (s *VasTaskService) UpdateLine(id string, idx int, line vastask.Line) (vastask.Task, error) {
	return s.tasks.UpdateLine(id, idx, line)
}

func (s *VasTaskService) RemoveLine(id string, idx int) (vastask.Task, error) {
	return s.tasks.RemoveLine(id, idx)
}

func (s *VasTaskService) Finish(id string) (vastask.Task, error) {
	t, err := s.tasks.Finish(id)
	if err != nil {
		return vastask.Task{}, err
	}
	s.observe()
	return t, nil
}

// Commit stores one VAS entry per task line with the given quantities. All
// entries are written together or not at all.
func (s *VasTaskService) Commit(ctx context.Context, id string, quantities []int) ([]domain.VasEntry, error) {
	entries, err := s.tasks.Commit(ctx, id, quantities, s.persist)
	if err != nil {
		return nil, err
	}
	s.observe()
	log.Info().Str("task_id", id).Int("entries", len(entries)).Msg("vas task committed")
	return entries, nil
}

func (s *VasTaskService) persist(ctx context.Context, entries []domain.VasEntry) error {
	prepared := make([]domain.VasEntry, len(entries))
	for i, e := range entries {
		p, err := s.inbound.Vas.Prepare(e)
		if err != nil {
			return err
		}
		prepared[i] = p
	}
	if err := s.inbound.Vas.CreateMany(ctx, prepared); err != nil {
		return err
	}
	copy(entries, prepared)
	return nil
}

func (s *VasTaskService) Cancel(id string) error {
	if err := s.tasks.Cancel(id); err != nil {
		return err
	}
	s.observe()
	return nil
}

func (s *VasTaskService) Discard(id string) error {
	if err := s.tasks.Discard(id); err != nil {
		return err
	}
	s.observe()
	return nil
}

func (s *VasTaskService) Elapsed(id string) (time.Duration, error) {
	return s.tasks.Elapsed(id)
}

func (s *VasTaskService) observe() {
	for state, n := range s.tasks.Count() {
		metrics.VasTasks.WithLabelValues(string(state)).Set(float64(n))
	}
}
