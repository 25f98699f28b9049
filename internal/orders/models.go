package orders

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Table struct {
	ID          int64       `json:"id"`
	Number      string      `json:"number"` // display label, unique per venue
	Capacity    int         `json:"capacity"`
	Status      TableStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	IsActive    bool        `json:"is_active"`
}

type Order struct {
	ID        int64       `json:"id"`
	TableID   int64       `json:"table_id"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem freezes quantity and unit price at order creation time so
// historical totals stay correct when the catalog changes afterwards.
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// PendingOrder is the kitchen-queue read model: an open order enriched
// with what the kitchen needs to cook and serve it.
type PendingOrder struct {
	ID               int64         `json:"id"`
	TableID          int64         `json:"table_id"`
	TableNumber      string        `json:"table_number"`
	TableDescription string        `json:"table_description,omitempty"`
	Total            float64       `json:"total"`
	Status           OrderStatus   `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	Items            []PendingItem `json:"items"`
}

type PendingItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// SaleRecord is one PAID order as seen by the sales report.
type SaleRecord struct {
	OrderID     int64
	Total       float64
	TableNumber string
}
