package vastask

import (
	"strings"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/analytics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

type State string

const (
	StateActive   State = "active"
	StateFinished State = "finished"
)

// Line is one brand/sku pair worked on within a task.
type Line struct {
	Brand string `json:"brand"`
	SKU   string `json:"sku"`
}

// Task is an in-flight VAS job. It is never persisted; committing turns each
// line into a VasEntry.
type Task struct {
	ID        string     `json:"id"`
	State     State      `json:"state"`
	Operator  string     `json:"operator"`
	VasType   string     `json:"vas_type"`
	Lines     []Line     `json:"lines"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Duration  string     `json:"duration,omitempty"`
	Elapsed   string     `json:"elapsed"`

	committing bool
}

func (t *Task) clone() Task {
	c := *t
	c.Lines = append([]Line(nil), t.Lines...)
	if t.EndedAt != nil {
		end := *t.EndedAt
		c.EndedAt = &end
	}
	return c
}

func (t *Task) elapsed(now time.Time) time.Duration {
	if t.EndedAt != nil {
		return t.EndedAt.Sub(t.StartedAt)
	}
	return now.Sub(t.StartedAt)
}

func (t *Task) validateFinish() error {
	if strings.TrimSpace(t.Operator) == "" {
		return domain.NewValidationError("operator", "is required")
	}
	if strings.TrimSpace(t.VasType) == "" {
		return domain.NewValidationError("vas_type", "is required")
	}
	for i, l := range t.Lines {
		if strings.TrimSpace(l.Brand) == "" || strings.TrimSpace(l.SKU) == "" {
			return domain.NewValidationError("lines", lineMessage(i, "brand and sku are required"))
		}
	}
	return nil
}

// entries builds one VasEntry per line sharing the task's header fields.
func (t *Task) entries(quantities []int) []domain.VasEntry {
	loc := analytics.Location()
	start := t.StartedAt.In(loc)
	end := t.EndedAt.In(loc)

	out := make([]domain.VasEntry, 0, len(t.Lines))
	for i, l := range t.Lines {
		out = append(out, domain.VasEntry{
			Date:      start.Format("2006-01-02"),
			StartTime: analytics.FormatTimestampIn(start, loc),
			EndTime:   analytics.FormatTimestampIn(end, loc),
			Duration:  t.Duration,
			Brand:     strings.TrimSpace(l.Brand),
			SKU:       strings.TrimSpace(l.SKU),
			VasType:   strings.TrimSpace(t.VasType),
			Qty:       domain.Quantity(quantities[i]),
			Operator:  strings.TrimSpace(t.Operator),
		})
	}
	return out
}
