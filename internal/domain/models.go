// backend-go/internal/domain/models.go
package domain

import (
	"time"
)

// Kind identifies one of the three record collections.
type Kind string

const (
	KindArrival     Kind = "arrivals"
	KindTransaction Kind = "transactions"
	KindVas         Kind = "vas"
)

// ParseKind accepts the collection name or its singular form.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "arrivals", "arrival":
		return KindArrival, true
	case "transactions", "transaction":
		return KindTransaction, true
	case "vas", "vas_entries", "vas-entries":
		return KindVas, true
	}
	return "", false
}

// Arrival is the inbound shipment record against a purchase order.
type Arrival struct {
	ID          string    `json:"id" db:"id"`
	Date        string    `json:"date" db:"date"`
	ArrivalTime string    `json:"arrival_time" db:"arrival_time"`
	Brand       string    `json:"brand" db:"brand"`
	ReceiptNo   string    `json:"receipt_no" db:"receipt_no"`
	PONo        string    `json:"po_no" db:"po_no"`
	POQty       Quantity  `json:"po_qty" db:"po_qty"`
	Operator    string    `json:"operator" db:"operator"`
	Note        string    `json:"note" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is a receive or putaway line posted against a receipt.
type Transaction struct {
	ID              string      `json:"id" db:"id"`
	Date            string      `json:"date" db:"date"`
	TimeTransaction string      `json:"time_transaction" db:"time_transaction"`
	ReceiptNo       string      `json:"receipt_no" db:"receipt_no"`
	SKU             string      `json:"sku" db:"sku"`
	OperateType     OperateType `json:"operate_type" db:"operate_type"`
	Qty             Quantity    `json:"qty" db:"qty"`
	Operator        string      `json:"operator" db:"operator"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// VasEntry is a completed value-added-service record.
type VasEntry struct {
	ID        string    `json:"id" db:"id"`
	Date      string    `json:"date" db:"date"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	Duration  string    `json:"duration" db:"duration"`
	Brand     string    `json:"brand" db:"brand"`
	SKU       string    `json:"sku" db:"sku"`
	VasType   string    `json:"vas_type" db:"vas_type"`
	Qty       Quantity  `json:"qty" db:"qty"`
	Operator  string    `json:"operator" db:"operator"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Record is implemented by every stored record kind.
type Record interface {
	RecordID() string
	Created() time.Time
}

func (a Arrival) RecordID() string { return a.ID }

func (a Arrival) Created() time.Time { return a.CreatedAt }

func (t Transaction) RecordID() string { return t.ID }

func (t Transaction) Created() time.Time { return t.CreatedAt }

func (v VasEntry) RecordID() string { return v.ID }

func (v VasEntry) Created() time.Time { return v.CreatedAt }

// Snapshot holds the three record sets read together.
type Snapshot struct {
	Arrivals     []Arrival
	Transactions []Transaction
	Vas          []VasEntry
}
