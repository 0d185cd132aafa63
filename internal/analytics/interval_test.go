package analytics

import (
	"testing"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

func intervalTransactions() []domain.Transaction {
	return []domain.Transaction{
		{ReceiptNo: "R1", OperateType: domain.OperateReceive, TimeTransaction: "1/15/2024 09:00:00"},
		{ReceiptNo: "r1", OperateType: domain.OperateReceive, TimeTransaction: "1/15/2024 08:00:00"},
		{ReceiptNo: "R1", OperateType: domain.OperatePutaway, TimeTransaction: "1/15/2024 10:00:00"},
		{ReceiptNo: " R1", OperateType: domain.OperatePutaway, TimeTransaction: "1/15/2024 12:00:00"},
		{ReceiptNo: "R2", OperateType: domain.OperateReceive, TimeTransaction: "1/16/2024 08:00:00"},
		{ReceiptNo: "R2", OperateType: domain.OperatePutaway, TimeTransaction: "1/16/2024 08:30:00"},
		{ReceiptNo: "R3", OperateType: domain.OperateReceive, TimeTransaction: "1/16/2024 08:00:00"},
		{ReceiptNo: "R4", OperateType: domain.OperatePutaway, TimeTransaction: "1/17/2024 07:00:00"},
		{ReceiptNo: "R4", OperateType: domain.OperateReceive, TimeTransaction: "1/17/2024 09:00:00"},
		{ReceiptNo: "R5", OperateType: domain.OperateReceive, TimeTransaction: "garbage"},
		{ReceiptNo: "R5", OperateType: domain.OperatePutaway, TimeTransaction: "1/17/2024 09:00:00"},
		{ReceiptNo: "", OperateType: domain.OperateReceive, TimeTransaction: "1/17/2024 01:00:00"},
		{ReceiptNo: "R6", OperateType: domain.OperateReceive},
	}
}

func TestAvgReceiveToPutaway(t *testing.T) {
	got := AvgReceiveToPutaway(intervalTransactions())

	if got.Seconds == nil {
		t.Fatal("expected a mean, got no data")
	}
	// (4h + 30m) / 2
	if *got.Seconds != 8100 {
		t.Errorf("Seconds = %d, want 8100", *got.Seconds)
	}
	if got.Display != "2h 15m" {
		t.Errorf("Display = %q, want %q", got.Display, "2h 15m")
	}
	if got.Samples != 2 {
		t.Errorf("Samples = %d, want 2", got.Samples)
	}
}

func TestAvgReceiveToPutaway_NoData(t *testing.T) {
	got := AvgReceiveToPutaway([]domain.Transaction{
		{ReceiptNo: "R1", OperateType: domain.OperateReceive, TimeTransaction: "1/15/2024 08:00:00"},
	})
	if got.Seconds != nil || got.Display != "-" {
		t.Fatalf("expected no-data sentinel, got %+v", got)
	}
}

func TestAvgLeadTime(t *testing.T) {
	arrivals := []domain.Arrival{
		{PONo: "PO-A", ReceiptNo: "R1", ArrivalTime: "1/15/2024 07:00:00"},
		{PONo: "po-a ", ReceiptNo: "R2", ArrivalTime: "1/15/2024 06:00:00"},
		{PONo: "PO-B", ReceiptNo: "R3", ArrivalTime: "1/15/2024 06:00:00"},
		{PONo: "", ReceiptNo: "R1", ArrivalTime: "1/10/2024 06:00:00"},
		{PONo: "PO-C", ReceiptNo: "R1", ArrivalTime: "bad"},
		{PONo: "PO-D", ReceiptNo: "R2"},
	}

	got := AvgLeadTime(arrivals, intervalTransactions())
	if got.Seconds == nil {
		t.Fatal("expected a mean, got no data")
	}
	// PO-A: earliest arrival 1/15 06:00, latest putaway over R1/R2 is 1/16 08:30.
	if *got.Seconds != 95400 {
		t.Errorf("Seconds = %d, want 95400", *got.Seconds)
	}
	if got.Display != "1d 2h 30m" {
		t.Errorf("Display = %q, want %q", got.Display, "1d 2h 30m")
	}
	if got.Samples != 1 {
		t.Errorf("Samples = %d, want 1", got.Samples)
	}
}

func TestAvgLeadTime_SkipsNonPositive(t *testing.T) {
	arrivals := []domain.Arrival{
		{PONo: "PO-A", ReceiptNo: "R2", ArrivalTime: "1/20/2024 06:00:00"},
	}
	got := AvgLeadTime(arrivals, intervalTransactions())
	if got.Seconds != nil || got.Display != "-" {
		t.Fatalf("expected no-data sentinel, got %+v", got)
	}
}
