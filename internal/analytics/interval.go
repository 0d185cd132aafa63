package analytics

import (
	"strings"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

type receiptSpan struct {
	firstReceive time.Time
	lastPutaway  time.Time
	hasReceive   bool
	hasPutaway   bool
}

// AvgReceiveToPutaway is the mean, over receipts having both a receive and
// a putaway, of the latest putaway minus the earliest receive. Transactions
// without a receipt number or a parseable time are skipped, and only
// positive intervals count.
func AvgReceiveToPutaway(transactions []domain.Transaction) domain.Interval {
	spans := make(map[string]*receiptSpan)
	order := make([]string, 0)

	for _, t := range transactions {
		key := ReceiptKey(t.ReceiptNo)
		if key == "" || strings.TrimSpace(t.TimeTransaction) == "" {
			continue
		}
		at, ok := ParseTimestamp(t.TimeTransaction)
		if !ok {
			continue
		}

		span, exists := spans[key]
		if !exists {
			span = &receiptSpan{}
			spans[key] = span
			order = append(order, key)
		}

		switch t.OperateType {
		case domain.OperateReceive:
			if !span.hasReceive || at.Before(span.firstReceive) {
				span.firstReceive = at
				span.hasReceive = true
			}
		case domain.OperatePutaway:
			if !span.hasPutaway || at.After(span.lastPutaway) {
				span.lastPutaway = at
				span.hasPutaway = true
			}
		}
	}

	diffs := make([]time.Duration, 0, len(order))
	for _, key := range order {
		span := spans[key]
		if !span.hasReceive || !span.hasPutaway {
			continue
		}
		if d := span.lastPutaway.Sub(span.firstReceive); d > 0 {
			diffs = append(diffs, d)
		}
	}
	return meanInterval(diffs)
}

type poSpan struct {
	firstArrival time.Time
	lastPutaway  time.Time
	hasPutaway   bool
}

// AvgLeadTime is the mean, over purchase orders, of the latest putaway across
// the PO's receipts minus the PO's earliest arrival. Arrivals need both an
// arrival time and a PO number; only positive intervals count.
func AvgLeadTime(arrivals []domain.Arrival, transactions []domain.Transaction) domain.Interval {
	putawayByReceipt := make(map[string]time.Time)
	for _, t := range transactions {
		if t.OperateType != domain.OperatePutaway {
			continue
		}
		key := ReceiptKey(t.ReceiptNo)
		if key == "" {
			continue
		}
		at, ok := ParseTimestamp(t.TimeTransaction)
		if !ok {
			continue
		}
		if prev, seen := putawayByReceipt[key]; !seen || at.After(prev) {
			putawayByReceipt[key] = at
		}
	}

	spans := make(map[string]*poSpan)
	order := make([]string, 0)
	for _, a := range arrivals {
		poKey := strings.ToLower(strings.TrimSpace(a.PONo))
		if poKey == "" || strings.TrimSpace(a.ArrivalTime) == "" {
			continue
		}
		at, ok := ParseTimestamp(a.ArrivalTime)
		if !ok {
			continue
		}

		span, exists := spans[poKey]
		if !exists {
			span = &poSpan{firstArrival: at}
			spans[poKey] = span
			order = append(order, poKey)
		} else if at.Before(span.firstArrival) {
			span.firstArrival = at
		}

		if put, found := putawayByReceipt[ReceiptKey(a.ReceiptNo)]; found {
			if !span.hasPutaway || put.After(span.lastPutaway) {
				span.lastPutaway = put
				span.hasPutaway = true
			}
		}
	}

	diffs := make([]time.Duration, 0, len(order))
	for _, key := range order {
		span := spans[key]
		if !span.hasPutaway {
			continue
		}
		if d := span.lastPutaway.Sub(span.firstArrival); d > 0 {
			diffs = append(diffs, d)
		}
	}
	return meanInterval(diffs)
}

// meanInterval averages at millisecond resolution and truncates to whole
// seconds.
func meanInterval(diffs []time.Duration) domain.Interval {
	if len(diffs) == 0 {
		return domain.Interval{Display: "-"}
	}
	var sumMS int64
	for _, d := range diffs {
		sumMS += d.Milliseconds()
	}
	secs := sumMS / int64(len(diffs)) / 1000
	return domain.Interval{
		Seconds: &secs,
		Display: FormatElapsed(secs),
		Samples: len(diffs),
	}
}
