package analytics

import (
	"testing"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{ReceiptNo: "po1", OperateType: domain.OperateReceive, Qty: 60},
		{ReceiptNo: "PO1", OperateType: domain.OperatePutaway, Qty: 40},
		{ReceiptNo: " Po1 ", OperateType: domain.OperateReceive, Qty: 5},
		{ReceiptNo: "PO2", OperateType: domain.OperateReceive, Qty: 7},
		{ReceiptNo: "PO1", OperateType: "transfer", Qty: 999},
		{ReceiptNo: "", OperateType: domain.OperateReceive, Qty: 11},
		{ReceiptNo: "P O1", OperateType: domain.OperateReceive, Qty: 13},
	}
}

func TestReconciler_CalculatedQty(t *testing.T) {
	calcs := map[string]QtyCalculator{
		"scan":    NewReconciler(sampleTransactions()),
		"indexed": NewIndexedReconciler(sampleTransactions()),
	}

	tests := []struct {
		receipt string
		want    domain.ReceiptQty
	}{
		{"PO1", domain.ReceiptQty{ReceiveQty: 65, PutawayQty: 40}},
		{"  po1", domain.ReceiptQty{ReceiveQty: 65, PutawayQty: 40}},
		{"PO2", domain.ReceiptQty{ReceiveQty: 7}},
		{"PO3", domain.ReceiptQty{}},
		{"", domain.ReceiptQty{}},
		{"   ", domain.ReceiptQty{}},
	}

	for name, calc := range calcs {
		for _, tt := range tests {
			if got := calc.CalculatedQty(tt.receipt); got != tt.want {
				t.Errorf("%s: CalculatedQty(%q) = %+v, want %+v", name, tt.receipt, got, tt.want)
			}
		}
	}
}

func TestViewArrival_PendingQty(t *testing.T) {
	calc := NewReconciler([]domain.Transaction{
		{ReceiptNo: "po1", OperateType: domain.OperateReceive, Qty: 60},
		{ReceiptNo: "PO1", OperateType: domain.OperatePutaway, Qty: 40},
		{ReceiptNo: "OVER", OperateType: domain.OperateReceive, Qty: 12},
	})

	view := ViewArrival(domain.Arrival{ReceiptNo: "PO1", POQty: 100}, calc)
	if view.ReceiveQty != 60 || view.PutawayQty != 40 || view.PendingQty != 40 {
		t.Fatalf("unexpected view %+v", view)
	}

	over := ViewArrival(domain.Arrival{ReceiptNo: "over", POQty: 10}, calc)
	if over.PendingQty != -2 {
		t.Fatalf("PendingQty = %d, want -2", over.PendingQty)
	}

	none := ViewArrival(domain.Arrival{ReceiptNo: "missing", POQty: 8}, calc)
	if none.PendingQty != 8 {
		t.Fatalf("PendingQty = %d, want 8", none.PendingQty)
	}
}
