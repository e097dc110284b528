package warehouse

import "time"

// Warehouse is a physical site holding stock. Contact is a single nested
// object; payloads carrying a plural contacts list are rejected as an
// unknown shape rather than migrated silently.
type Warehouse struct {
	ID                int       `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Address           string    `json:"address,omitempty"`
	Zip               string    `json:"zip,omitempty"`
	City              string    `json:"city,omitempty"`
	Province          string    `json:"province,omitempty"`
	Country           string    `json:"country,omitempty"`
	Contact           *Contact  `json:"contact,omitempty"`
	ClassificationsID []int     `json:"classifications_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Location is a storage position inside a warehouse.
type Location struct {
	ID          int       `json:"id"`
	WarehouseID int       `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
