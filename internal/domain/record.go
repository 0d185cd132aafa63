package domain

import (
	"strings"
	"time"
)

// Mutable is the pointer form of a record kind, used by generic services.
type Mutable[T any] interface {
	*T
	Record
	Normalize()
	Validate() error
	Stamp(id string, now time.Time)
	Touch(now time.Time)
}

// Patch is a partial update for a record kind. Absent fields keep their value.
type Patch[T any] interface {
	Apply(*T)
}

func (a *Arrival) Normalize() {
	a.Date = strings.TrimSpace(a.Date)
	a.ArrivalTime = strings.TrimSpace(a.ArrivalTime)
	a.Brand = strings.TrimSpace(a.Brand)
	a.ReceiptNo = strings.TrimSpace(a.ReceiptNo)
	a.PONo = strings.TrimSpace(a.PONo)
	a.Operator = strings.TrimSpace(a.Operator)
	a.Note = strings.TrimSpace(a.Note)
}

func (a *Arrival) Validate() error {
	switch {
	case a.Brand == "":
		return NewValidationError("brand", "is required")
	case a.ReceiptNo == "":
		return NewValidationError("receipt_no", "is required")
	case a.PONo == "":
		return NewValidationError("po_no", "is required")
	case a.POQty < 0:
		return NewValidationError("po_qty", "must not be negative")
	}
	return nil
}

func (a *Arrival) Stamp(id string, now time.Time) {
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
}

func (a *Arrival) Touch(now time.Time) { a.UpdatedAt = now }

func (t *Transaction) Normalize() {
	t.Date = strings.TrimSpace(t.Date)
	t.TimeTransaction = strings.TrimSpace(t.TimeTransaction)
	t.ReceiptNo = strings.TrimSpace(t.ReceiptNo)
	t.SKU = strings.TrimSpace(t.SKU)
	t.OperateType = NormalizeOperateType(string(t.OperateType))
	t.Operator = strings.TrimSpace(t.Operator)
}

func (t *Transaction) Validate() error {
	switch {
	case t.ReceiptNo == "":
		return NewValidationError("receipt_no", "is required")
	case t.SKU == "":
		return NewValidationError("sku", "is required")
	case t.Qty < 0:
		return NewValidationError("qty", "must not be negative")
	}
	return nil
}

func (t *Transaction) Stamp(id string, now time.Time) {
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
}

func (t *Transaction) Touch(now time.Time) { t.UpdatedAt = now }

func (v *VasEntry) Normalize() {
	v.Date = strings.TrimSpace(v.Date)
	v.StartTime = strings.TrimSpace(v.StartTime)
	v.EndTime = strings.TrimSpace(v.EndTime)
	v.Duration = strings.TrimSpace(v.Duration)
	v.Brand = strings.TrimSpace(v.Brand)
	v.SKU = strings.TrimSpace(v.SKU)
	v.VasType = strings.TrimSpace(v.VasType)
	v.Operator = strings.TrimSpace(v.Operator)
}

func (v *VasEntry) Validate() error {
	switch {
	case v.SKU == "":
		return NewValidationError("sku", "is required")
	case v.VasType == "":
		return NewValidationError("vas_type", "is required")
	case v.Qty <= 0:
		return NewValidationError("qty", "must be positive")
	}
	return nil
}

func (v *VasEntry) Stamp(id string, now time.Time) {
	v.ID = id
	v.CreatedAt = now
	v.UpdatedAt = now
}

func (v *VasEntry) Touch(now time.Time) { v.UpdatedAt = now }

type ArrivalPatch struct {
	Date        *string   `json:"date"`
	ArrivalTime *string   `json:"arrival_time"`
	Brand       *string   `json:"brand"`
	ReceiptNo   *string   `json:"receipt_no"`
	PONo        *string   `json:"po_no"`
	POQty       *Quantity `json:"po_qty"`
	Operator    *string   `json:"operator"`
	Note        *string   `json:"note"`
}

func (p ArrivalPatch) Apply(a *Arrival) {
	setString(&a.Date, p.Date)
	setString(&a.ArrivalTime, p.ArrivalTime)
	setString(&a.Brand, p.Brand)
	setString(&a.ReceiptNo, p.ReceiptNo)
	setString(&a.PONo, p.PONo)
	setQuantity(&a.POQty, p.POQty)
	setString(&a.Operator, p.Operator)
	setString(&a.Note, p.Note)
}

type TransactionPatch struct {
	Date            *string   `json:"date"`
	TimeTransaction *string   `json:"time_transaction"`
	ReceiptNo       *string   `json:"receipt_no"`
	SKU             *string   `json:"sku"`
	OperateType     *string   `json:"operate_type"`
	Qty             *Quantity `json:"qty"`
	Operator        *string   `json:"operator"`
}

func (p TransactionPatch) Apply(t *Transaction) {
	setString(&t.Date, p.Date)
	setString(&t.TimeTransaction, p.TimeTransaction)
	setString(&t.ReceiptNo, p.ReceiptNo)
	setString(&t.SKU, p.SKU)
	if p.OperateType != nil {
		t.OperateType = OperateType(*p.OperateType)
	}
	setQuantity(&t.Qty, p.Qty)
	setString(&t.Operator, p.Operator)
}

type VasPatch struct {
	Date      *string   `json:"date"`
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Duration  *string   `json:"duration"`
	Brand     *string   `json:"brand"`
	SKU       *string   `json:"sku"`
	VasType   *string   `json:"vas_type"`
	Qty       *Quantity `json:"qty"`
	Operator  *string   `json:"operator"`
}

func (p VasPatch) Apply(v *VasEntry) {
	setString(&v.Date, p.Date)
	setString(&v.StartTime, p.StartTime)
	setString(&v.EndTime, p.EndTime)
	setString(&v.Duration, p.Duration)
	setString(&v.Brand, p.Brand)
	setString(&v.SKU, p.SKU)
	setString(&v.VasType, p.VasType)
	setQuantity(&v.Qty, p.Qty)
	setString(&v.Operator, p.Operator)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setQuantity(dst *Quantity, v *Quantity) {
	if v != nil {
		*dst = *v
	}
}
