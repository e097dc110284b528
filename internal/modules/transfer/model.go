package transfer

import "time"

const (
	StatusScheduled = "Scheduled"
	StatusProcessed = "Processed"
)

// Transfer moves items between locations. TransferFrom is nullable:
// an inbound transfer has no source location.
type Transfer struct {
	ID             int        `json:"id"`
	Reference      string     `json:"reference"`
	TransferFrom   *int       `json:"transfer_from"`
	TransferTo     int        `json:"transfer_to"`
	TransferStatus string     `json:"transfer_status,omitempty"`
	Items          []LineItem `json:"items,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LineItem is one item position on a transfer.
type LineItem struct {
	ItemID string `json:"item_id"`
	Amount int    `json:"amount"`
}
