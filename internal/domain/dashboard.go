package domain

import "time"

// ReceiptQty is the reconciled quantity posted against one receipt number.
type ReceiptQty struct {
	ReceiveQty int `json:"receive_qty"`
	PutawayQty int `json:"putaway_qty"`
}

// ArrivalView is an Arrival enriched with its reconciled quantities.
// PendingQty may be negative when more was received than ordered.
type ArrivalView struct {
	Arrival
	ReceiveQty int `json:"receive_qty"`
	PutawayQty int `json:"putaway_qty"`
	PendingQty int `json:"pending_qty"`
}

// Interval is a mean elapsed time. Seconds is nil when no sample qualified,
// in which case Display is "-".
type Interval struct {
	Seconds *int64 `json:"seconds"`
	Display string `json:"display"`
	Samples int    `json:"samples"`
}

// VasTypeSummary aggregates VAS entries sharing a vas type.
type VasTypeSummary struct {
	VasType    string `json:"vas_type"`
	TotalQty   int    `json:"total_qty"`
	SKUCount   int    `json:"sku_count"`
	BrandCount int    `json:"brand_count"`
}

// VasSummary is the VAS productivity section of the dashboard. The averages
// are nil when no VAS quantity was recorded.
type VasSummary struct {
	Types                []VasTypeSummary `json:"types"`
	TotalQty             int              `json:"total_qty"`
	Operators            int              `json:"operators"`
	Days                 int              `json:"days"`
	AvgQtyPerOperatorDay *int             `json:"avg_qty_per_operator_day"`
	AvgQtyPerDay         *int             `json:"avg_qty_per_day"`
}

// QtyChart holds the bar chart series; MaxQty is never below 1.
type QtyChart struct {
	ReceiveQty int `json:"receive_qty"`
	PutawayQty int `json:"putaway_qty"`
	PendingQty int `json:"pending_qty"`
	MaxQty     int `json:"max_qty"`
}

// DashboardSummary is the full derived view over the three record sets.
type DashboardSummary struct {
	POReceived      int `json:"po_received"`
	BrandsReceived  int `json:"brands_received"`
	POPending       int `json:"po_pending"`
	TotalPOQty      int `json:"total_po_qty"`
	TotalReceiveQty int `json:"total_receive_qty"`
	TotalPutawayQty int `json:"total_putaway_qty"`
	TotalQtyPending int `json:"total_qty_pending"`

	CompletedPercent int `json:"completed_percent"`
	PendingPercent   int `json:"pending_percent"`

	ReceiveRate string `json:"receive_rate"`
	PutawayRate string `json:"putaway_rate"`
	PendingRate string `json:"pending_rate"`

	Chart QtyChart `json:"chart"`

	AvgReceiveToPutaway Interval `json:"avg_receive_to_putaway"`
	AvgLeadTime         Interval `json:"avg_lead_time"`

	PendingArrivals []ArrivalView `json:"pending_arrivals"`
	Vas             VasSummary    `json:"vas"`

	GeneratedAt time.Time `json:"generated_at"`
}
