package catalog

import "time"

// Item is a stock-keeping unit, keyed by its uid ("P" + digits).
type Item struct {
	UID                  string    `json:"uid"`
	Code                 string    `json:"code"`
	Description          string    `json:"description"`
	ShortDescription     string    `json:"short_description,omitempty"`
	UpcCode              string    `json:"upc_code,omitempty"`
	ModelNumber          string    `json:"model_number,omitempty"`
	CommodityCode        string    `json:"commodity_code,omitempty"`
	ItemLine             int       `json:"item_line"`
	ItemGroup            int       `json:"item_group"`
	ItemType             int       `json:"item_type"`
	UnitPurchaseQuantity int       `json:"unit_purchase_quantity"`
	UnitOrderQuantity    int       `json:"unit_order_quantity"`
	PackOrderQuantity    int       `json:"pack_order_quantity"`
	SupplierID           int       `json:"supplier_id"`
	SupplierCode         string    `json:"supplier_code,omitempty"`
	SupplierPartNumber   string    `json:"supplier_part_number,omitempty"`
	ClassificationsID    []int     `json:"classifications_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Taxonomy is a flat classification record. Item lines, groups and types
// share this shape and live in separate collections.
type Taxonomy struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Taxonomy kinds, also the route and audit resource names.
const (
	KindItemLines  = "item_lines"
	KindItemGroups = "item_groups"
	KindItemTypes  = "item_types"
)
