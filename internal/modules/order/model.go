package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Fulfillment is set by the cross-docking workflow when
// a linked shipment ships.
const (
	StatusPending            = "Pending"
	StatusPartiallyFulfilled = "Partially Fulfilled"
	StatusFulfilled          = "Fulfilled"
)

// Order is an outbound request for items. ShipmentID is a scalar,
// nullable reference: an order belongs to at most one shipment, while a
// shipment may carry several orders (see the shipment model).
type Order struct {
	ID             int             `json:"id"`
	SourceID       int             `json:"source_id"`
	OrderDate      time.Time       `json:"order_date"`
	RequestDate    time.Time       `json:"request_date"`
	Reference      string          `json:"reference,omitempty"`
	ReferenceExtra string          `json:"reference_extra,omitempty"`
	OrderStatus    string          `json:"order_status,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	ShippingNotes  string          `json:"shipping_notes,omitempty"`
	PickingNotes   string          `json:"picking_notes,omitempty"`
	WarehouseID    int             `json:"warehouse_id"`
	ShipTo         *int            `json:"ship_to"`
	BillTo         *int            `json:"bill_to"`
	ShipmentID     *int            `json:"shipment_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalSurcharge decimal.Decimal `json:"total_surcharge"`
	Items          []LineItem      `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LineItem is one item position on an order.
type LineItem struct {
	ItemID             string `json:"item_id"`
	Amount             int    `json:"amount"`
	CrossDockingStatus string `json:"cross_docking_status,omitempty"`
}
