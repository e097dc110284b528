package partner

import "time"

// Supplier delivers items to warehouses.
type Supplier struct {
	ID           int       `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	AddressExtra string    `json:"address_extra,omitempty"`
	City         string    `json:"city,omitempty"`
	ZipCode      string    `json:"zip_code,omitempty"`
	Province     string    `json:"province,omitempty"`
	Country      string    `json:"country,omitempty"`
	ContactName  string    `json:"contact_name,omitempty"`
	PhoneNumber  string    `json:"phonenumber,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Client receives orders.
type Client struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	ZipCode      string    `json:"zip_code,omitempty"`
	Province     string    `json:"province,omitempty"`
	Country      string    `json:"country,omitempty"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
