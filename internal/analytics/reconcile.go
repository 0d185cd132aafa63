package analytics

import (
	"strings"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

// QtyCalculator derives the received and put-away quantity for a receipt.
type QtyCalculator interface {
	CalculatedQty(receiptNo string) domain.ReceiptQty
}

// ReceiptKey is the matching key for receipt numbers: trimmed and lowercased.
// Internal whitespace is significant.
func ReceiptKey(receiptNo string) string {
	return strings.ToLower(strings.TrimSpace(receiptNo))
}

// Reconciler scans every transaction per lookup.
type Reconciler struct {
	transactions []domain.Transaction
}

func NewReconciler(transactions []domain.Transaction) *Reconciler {
	return &Reconciler{transactions: transactions}
}

func (r *Reconciler) CalculatedQty(receiptNo string) domain.ReceiptQty {
	var out domain.ReceiptQty
	key := ReceiptKey(receiptNo)
	if key == "" {
		return out
	}
	for _, t := range r.transactions {
		if ReceiptKey(t.ReceiptNo) != key {
			continue
		}
		addQty(&out, t)
	}
	return out
}

// IndexedReconciler precomputes totals per receipt key. It returns the same
// results as Reconciler.
type IndexedReconciler struct {
	byReceipt map[string]domain.ReceiptQty
}

func NewIndexedReconciler(transactions []domain.Transaction) *IndexedReconciler {
	idx := make(map[string]domain.ReceiptQty)
	for _, t := range transactions {
		key := ReceiptKey(t.ReceiptNo)
		if key == "" {
			continue
		}
		q := idx[key]
		addQty(&q, t)
		idx[key] = q
	}
	return &IndexedReconciler{byReceipt: idx}
}

func (r *IndexedReconciler) CalculatedQty(receiptNo string) domain.ReceiptQty {
	key := ReceiptKey(receiptNo)
	if key == "" {
		return domain.ReceiptQty{}
	}
	return r.byReceipt[key]
}

// NewCalculator picks the indexed or scanning implementation.
func NewCalculator(transactions []domain.Transaction, indexed bool) QtyCalculator {
	if indexed {
		return NewIndexedReconciler(transactions)
	}
	return NewReconciler(transactions)
}

func addQty(q *domain.ReceiptQty, t domain.Transaction) {
	switch t.OperateType {
	case domain.OperateReceive:
		q.ReceiveQty += t.Qty.Int()
	case domain.OperatePutaway:
		q.PutawayQty += t.Qty.Int()
	}
}

// ViewArrival enriches a with its reconciled quantities.
func ViewArrival(a domain.Arrival, calc QtyCalculator) domain.ArrivalView {
	q := calc.CalculatedQty(a.ReceiptNo)
	return domain.ArrivalView{
		Arrival:    a,
		ReceiveQty: q.ReceiveQty,
		PutawayQty: q.PutawayQty,
		PendingQty: a.POQty.Int() - q.ReceiveQty,
	}
}

// ViewArrivals enriches every arrival, keeping the input order.
func ViewArrivals(arrivals []domain.Arrival, calc QtyCalculator) []domain.ArrivalView {
	out := make([]domain.ArrivalView, 0, len(arrivals))
	for _, a := range arrivals {
		out = append(out, ViewArrival(a, calc))
	}
	return out
}
