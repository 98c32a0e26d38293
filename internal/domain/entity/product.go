package entity

import "time"

// Product is an item a vendor sells, e.g. a litre of cow milk.
type Product struct {
	ID          string    `json:"product_id"`
	VendorID    string    `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Unit        string    `json:"unit"`
	Image       string    `json:"image,omitempty"`
	ImageBase64 string    `json:"image_base64,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
