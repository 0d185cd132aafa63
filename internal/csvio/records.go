package csvio

import (
	"strconv"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

var (
	ArrivalImportColumns = []Column{
		{Label: "Date", Aliases: []string{"Tanggal Kedatangan"}},
		{Label: "Arrival Time", Aliases: []string{"Waktu Kedatangan"}},
		{Label: "Brand"},
		{Label: "Receipt No"},
		{Label: "PO No"},
		{Label: "PO Qty"},
		{Label: "Operator"},
		{Label: "Note"},
	}

	ArrivalExportHeader = []string{
		"Date", "Arrival Time", "Brand", "Receipt No", "PO No", "PO Qty",
		"Receive Qty", "Putaway Qty", "Pending Qty", "Operator", "Note",
	}

	TransactionColumns = []Column{
		{Label: "Date", Aliases: []string{"Tanggal Transaksi"}},
		{Label: "Transaction Time", Aliases: []string{"Time Transaction"}},
		{Label: "Receipt No"},
		{Label: "SKU"},
		{Label: "Operate Type"},
		{Label: "Qty"},
		{Label: "Operator"},
	}

	VasColumns = []Column{
		{Label: "Date", Aliases: []string{"Tanggal"}},
		{Label: "Start Time"},
		{Label: "End Time"},
		{Label: "Duration"},
		{Label: "Brand"},
		{Label: "SKU"},
		{Label: "VAS Type", Aliases: []string{"Tipe VAS"}},
		{Label: "Qty"},
		{Label: "Operator"},
	}
)

// Labels returns the primary label of each column.
func Labels(columns []Column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Label
	}
	return out
}

func ArrivalRow(v domain.ArrivalView) []string {
	return []string{
		v.Date, v.ArrivalTime, v.Brand, v.ReceiptNo, v.PONo, itoa(v.POQty.Int()),
		itoa(v.ReceiveQty), itoa(v.PutawayQty), itoa(v.PendingQty), v.Operator, v.Note,
	}
}

// ArrivalFromRow reads a row laid out as ArrivalImportColumns.
func ArrivalFromRow(row []string) domain.Arrival {
	return domain.Arrival{
		Date:        row[0],
		ArrivalTime: row[1],
		Brand:       row[2],
		ReceiptNo:   row[3],
		PONo:        row[4],
		POQty:       domain.ParseQuantity(row[5]),
		Operator:    row[6],
		Note:        row[7],
	}
}

func TransactionRow(t domain.Transaction) []string {
	return []string{
		t.Date, t.TimeTransaction, t.ReceiptNo, t.SKU, string(t.OperateType), itoa(t.Qty.Int()), t.Operator,
	}
}

// TransactionFromRow reads a row laid out as TransactionColumns.
func TransactionFromRow(row []string) domain.Transaction {
	return domain.Transaction{
		Date:            row[0],
		TimeTransaction: row[1],
		ReceiptNo:       row[2],
		SKU:             row[3],
		OperateType:     domain.NormalizeOperateType(row[4]),
		Qty:             domain.ParseQuantity(row[5]),
		Operator:        row[6],
	}
}

func VasRow(v domain.VasEntry) []string {
	return []string{
		v.Date, v.StartTime, v.EndTime, v.Duration, v.Brand, v.SKU, v.VasType, itoa(v.Qty.Int()), v.Operator,
	}
}

// VasFromRow reads a row laid out as VasColumns.
func VasFromRow(row []string) domain.VasEntry {
	return domain.VasEntry{
		Date:      row[0],
		StartTime: row[1],
		EndTime:   row[2],
		Duration:  row[3],
		Brand:     row[4],
		SKU:       row[5],
		VasType:   row[6],
		Qty:       domain.ParseQuantity(row[7]),
		Operator:  row[8],
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
