package domain

import "time"

// Product is the stock row owned by the inventory service. Quantity is only
// ever mutated through the stock ledger's reserve/release operations.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemRequest is one requested line of an order: how many units of which
// product.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ItemAvailability is the availability check result for a single requested
// item. Price is the unit price at check time and is omitted when the
// product does not exist.
type ItemAvailability struct {
	ProductID         string `json:"product_id"`
	IsAvailable       bool   `json:"is_available"`
	AvailableQuantity int    `json:"available_quantity"`
	Price             int64  `json:"price,omitempty"`
}
