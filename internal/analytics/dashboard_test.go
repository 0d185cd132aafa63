package analytics

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

func dashboardSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Arrivals: []domain.Arrival{
			{ID: "a1", Brand: "Nike", ReceiptNo: "PO1", POQty: 100},
			{ID: "a2", Brand: "nike ", ReceiptNo: "PO2", POQty: 50},
			{ID: "a3", Brand: "Adidas", ReceiptNo: "PO3", POQty: 20},
			{ID: "a4", Brand: "", ReceiptNo: "PO4", POQty: 0},
		},
		Transactions: []domain.Transaction{
			{ReceiptNo: "po1", OperateType: domain.OperateReceive, Qty: 60},
			{ReceiptNo: "PO1", OperateType: domain.OperatePutaway, Qty: 40},
			{ReceiptNo: "PO2", OperateType: domain.OperateReceive, Qty: 70},
		},
	}
}

func TestSummarize_Totals(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, indexed := range []bool{false, true} {
		s := Summarize(dashboardSnapshot(), Options{IndexedReconcile: indexed, Now: func() time.Time { return fixed }})

		if s.POReceived != 4 || s.BrandsReceived != 2 || s.POPending != 2 {
			t.Errorf("counts = %d/%d/%d, want 4/2/2", s.POReceived, s.BrandsReceived, s.POPending)
		}
		if s.TotalPOQty != 170 || s.TotalReceiveQty != 130 || s.TotalPutawayQty != 40 {
			t.Errorf("totals = %d/%d/%d, want 170/130/40", s.TotalPOQty, s.TotalReceiveQty, s.TotalPutawayQty)
		}
		if s.TotalQtyPending != 60 {
			t.Errorf("TotalQtyPending = %d, want 60", s.TotalQtyPending)
		}
		if s.CompletedPercent != 76 || s.PendingPercent != 24 {
			t.Errorf("percent = %d/%d, want 76/24", s.CompletedPercent, s.PendingPercent)
		}
		if s.ReceiveRate != "76.5" || s.PutawayRate != "30.8" || s.PendingRate != "35.3" {
			t.Errorf("rates = %s/%s/%s", s.ReceiveRate, s.PutawayRate, s.PendingRate)
		}
		if s.Chart.MaxQty != 130 {
			t.Errorf("Chart.MaxQty = %d, want 130", s.Chart.MaxQty)
		}
		if len(s.PendingArrivals) != 2 || s.PendingArrivals[0].ID != "a1" || s.PendingArrivals[1].ID != "a3" {
			t.Fatalf("unexpected pending list %+v", s.PendingArrivals)
		}
		if s.PendingArrivals[0].PendingQty != 40 || s.PendingArrivals[1].PendingQty != 20 {
			t.Errorf("pending quantities = %d/%d", s.PendingArrivals[0].PendingQty, s.PendingArrivals[1].PendingQty)
		}
		if !s.GeneratedAt.Equal(fixed) {
			t.Errorf("GeneratedAt = %v", s.GeneratedAt)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(domain.Snapshot{}, Options{})

	if s.CompletedPercent != 0 || s.PendingPercent != 0 {
		t.Errorf("percent = %d/%d, want 0/0", s.CompletedPercent, s.PendingPercent)
	}
	if s.ReceiveRate != "0.0" || s.PutawayRate != "0.0" || s.PendingRate != "0.0" {
		t.Errorf("rates = %s/%s/%s", s.ReceiveRate, s.PutawayRate, s.PendingRate)
	}
	if s.Chart.MaxQty != 1 {
		t.Errorf("Chart.MaxQty = %d, want 1", s.Chart.MaxQty)
	}
	if s.AvgLeadTime.Display != "-" || s.AvgReceiveToPutaway.Display != "-" {
		t.Errorf("intervals = %q/%q", s.AvgLeadTime.Display, s.AvgReceiveToPutaway.Display)
	}
	if s.PendingArrivals == nil || len(s.PendingArrivals) != 0 {
		t.Errorf("expected empty pending list, got %v", s.PendingArrivals)
	}
	if s.Vas.AvgQtyPerDay != nil || s.Vas.AvgQtyPerOperatorDay != nil {
		t.Errorf("expected nil vas averages")
	}
}

func TestSummarize_OverReceivedClampsCompletion(t *testing.T) {
	s := Summarize(domain.Snapshot{
		Arrivals:     []domain.Arrival{{ReceiptNo: "X", POQty: 10}},
		Transactions: []domain.Transaction{{ReceiptNo: "x", OperateType: domain.OperateReceive, Qty: 15}},
	}, Options{})

	if s.CompletedPercent != 100 || s.PendingPercent != 0 {
		t.Errorf("percent = %d/%d, want 100/0", s.CompletedPercent, s.PendingPercent)
	}
	if s.ReceiveRate != "150.0" {
		t.Errorf("ReceiveRate = %s, want 150.0", s.ReceiveRate)
	}
	if s.POPending != 0 || s.TotalQtyPending != 0 {
		t.Errorf("over-received arrival must not count as pending")
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		num, den int
		want     string
	}{
		{0, 0, "0.0"},
		{5, 0, "0.0"},
		{1, 8, "12.5"},
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{10, 10, "100.0"},
	}
	for _, tt := range tests {
		if got := Rate(tt.num, tt.den); got != tt.want {
			t.Errorf("Rate(%d, %d) = %q, want %q", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestCompletion_RoundsHalfUp(t *testing.T) {
	if c, p := completion(1, 8); c != 13 || p != 87 {
		t.Fatalf("completion(1, 8) = %d/%d, want 13/87", c, p)
	}
}

func TestIndexedReconcilerMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	receipts := []string{"A1", "a1", " A1 ", "B2", "b2", "", "C3"}
	ops := []domain.OperateType{domain.OperateReceive, domain.OperatePutaway, "other"}

	txs := make([]domain.Transaction, 0, 300)
	for i := 0; i < 300; i++ {
		txs = append(txs, domain.Transaction{
			ReceiptNo:   receipts[rng.Intn(len(receipts))],
			OperateType: ops[rng.Intn(len(ops))],
			Qty:         domain.Quantity(rng.Intn(50)),
		})
	}

	scan := NewReconciler(txs)
	idx := NewIndexedReconciler(txs)
	for _, r := range append(receipts, "missing") {
		if a, b := scan.CalculatedQty(r), idx.CalculatedQty(r); !reflect.DeepEqual(a, b) {
			t.Errorf("receipt %q: scan %+v, indexed %+v", r, a, b)
		}
	}
}
