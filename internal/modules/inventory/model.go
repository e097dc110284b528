package inventory

import "time"

// Inventory tracks where an item sits and in what quantities. Locations
// maps location id to on-hand quantity; the totals are aggregates the
// service recomputes on every write.
type Inventory struct {
	ID             int         `json:"id"`
	ItemID         string      `json:"item_id"`
	Description    string      `json:"description,omitempty"`
	ItemReference  string      `json:"item_reference,omitempty"`
	Locations      map[int]int `json:"locations,omitempty"`
	TotalOnHand    int         `json:"total_on_hand"`
	TotalExpected  int         `json:"total_expected"`
	TotalOrdered   int         `json:"total_ordered"`
	TotalAllocated int         `json:"total_allocated"`
	TotalAvailable int         `json:"total_available"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// StockLog is a point-in-time count reconciliation, keyed by its
// timestamp rather than a synthetic id. AuditData maps inventory id to
// a map of location id to counted quantity.
type StockLog struct {
	Timestamp     string              `json:"timestamp"`
	PerformedBy   string              `json:"performed_by"`
	Status        string              `json:"status,omitempty"`
	AuditData     map[int]map[int]int `json:"audit_data,omitempty"`
	Discrepancies []string            `json:"discrepancies,omitempty"`
}
