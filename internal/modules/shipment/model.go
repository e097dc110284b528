package shipment

import "time"

// Shipment statuses used by the cross-docking workflow.
const (
	StatusPending   = "Pending"
	StatusTransit   = "Transit"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

// Shipment is an inbound or outbound consignment. OrderID is a list: a
// shipment may consolidate multiple orders.
type Shipment struct {
	ID                 int        `json:"id"`
	OrderID            []int      `json:"order_id,omitempty"`
	SourceID           int        `json:"source_id"`
	OrderDate          time.Time  `json:"order_date"`
	RequestDate        time.Time  `json:"request_date"`
	ShipmentDate       time.Time  `json:"shipment_date"`
	ShipmentType       string     `json:"shipment_type,omitempty"`
	ShipmentStatus     string     `json:"shipment_status,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CarrierCode        string     `json:"carrier_code,omitempty"`
	CarrierDescription string     `json:"carrier_description,omitempty"`
	ServiceCode        string     `json:"service_code,omitempty"`
	PaymentType        string     `json:"payment_type,omitempty"`
	TransferMode       string     `json:"transfer_mode,omitempty"`
	TotalPackageCount  int        `json:"total_package_count"`
	TotalPackageWeight float64    `json:"total_package_weight"`
	Items              []LineItem `json:"items"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// LineItem is one item position on a shipment.
type LineItem struct {
	ItemID             string `json:"item_id"`
	Amount             int    `json:"amount"`
	CrossDockingStatus string `json:"cross_docking_status,omitempty"`
}
