package analytics

import (
	"math"
	"strings"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// Options tunes Summarize.
type Options struct {
	// IndexedReconcile builds a receipt index once instead of scanning the
	// transactions for every arrival.
	IndexedReconcile bool
	Now              func() time.Time
}

// Summarize derives the dashboard from a snapshot of the three record sets.
// It never fails: malformed or missing values are skipped or read as 0.
func Summarize(snap domain.Snapshot, opts Options) domain.DashboardSummary {
	calc := NewCalculator(snap.Transactions, opts.IndexedReconcile)

	var s domain.DashboardSummary
	brands := make(map[string]struct{})
	pending := make([]domain.ArrivalView, 0)

	for _, a := range snap.Arrivals {
		view := ViewArrival(a, calc)

		s.POReceived++
		if b := strings.ToLower(strings.TrimSpace(a.Brand)); b != "" {
			brands[b] = struct{}{}
		}
		s.TotalPOQty += a.POQty.Int()
		s.TotalReceiveQty += view.ReceiveQty
		s.TotalPutawayQty += view.PutawayQty

		if view.PendingQty > 0 {
			s.POPending++
			s.TotalQtyPending += view.PendingQty
			pending = append(pending, view)
		}
	}
	s.BrandsReceived = len(brands)
	s.PendingArrivals = pending

	s.CompletedPercent, s.PendingPercent = completion(s.TotalReceiveQty, s.TotalPOQty)

	s.ReceiveRate = Rate(s.TotalReceiveQty, s.TotalPOQty)
	s.PutawayRate = Rate(s.TotalPutawayQty, s.TotalReceiveQty)
	s.PendingRate = Rate(s.TotalQtyPending, s.TotalPOQty)

	s.Chart = domain.QtyChart{
		ReceiveQty: s.TotalReceiveQty,
		PutawayQty: s.TotalPutawayQty,
		PendingQty: s.TotalQtyPending,
		MaxQty:     max(s.TotalReceiveQty, s.TotalPutawayQty, s.TotalQtyPending, 1),
	}

	s.AvgReceiveToPutaway = AvgReceiveToPutaway(snap.Transactions)
	s.AvgLeadTime = AvgLeadTime(snap.Arrivals, snap.Transactions)
	s.Vas = SummarizeVas(snap.Vas)

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	s.GeneratedAt = now()

	return s
}

// PendingArrivals lists arrivals whose PO quantity is not yet fully
// received, in input order.
func PendingArrivals(arrivals []domain.Arrival, calc QtyCalculator) []domain.ArrivalView {
	out := make([]domain.ArrivalView, 0)
	for _, a := range arrivals {
		if view := ViewArrival(a, calc); view.PendingQty > 0 {
			out = append(out, view)
		}
	}
	return out
}

// completion returns the completed and pending percentages. With nothing
// ordered both are 0; otherwise completed is clamped to 0..100 and pending
// is its complement.
func completion(received, ordered int) (completed, pendingPct int) {
	if ordered == 0 {
		return 0, 0
	}
	completed = roundHalfUp(float64(received) * 100 / float64(ordered))
	completed = min(max(completed, 0), 100)
	return completed, 100 - completed
}

// Rate renders num/den as a percentage with one decimal, "0.0" when den is 0.
func Rate(num, den int) string {
	if den == 0 {
		return "0.0"
	}
	return decimal.NewFromInt(int64(num)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(den))).
		StringFixed(1)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
