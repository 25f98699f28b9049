package orders

import (
	"context"
	"time"
)

// Tx is the transactional handle the engine performs all reads and
// writes through. Lookups return (nil, nil) for absent rows; row-level
// concurrency is the implementation's problem, but GetTable and
// GetProduct must pin the row for the remainder of the unit of work so
// a stock check and the following decrement cannot interleave with a
// concurrent reservation.
type Tx interface {
	GetTable(ctx context.Context, id int64) (*Table, error)
	SetTableStatus(ctx context.Context, id int64, status TableStatus) error

	GetProduct(ctx context.Context, id int64) (*Product, error)
	// AdjustProductStock applies a signed delta and fails rather than
	// let stock end up below zero.
	AdjustProductStock(ctx context.Context, id int64, delta int) error

	CreateOrder(ctx context.Context, tableID int64, total float64, status OrderStatus, items []OrderItem) (*Order, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	SetOrderStatus(ctx context.Context, id int64, status OrderStatus) error
}

// Store opens units of work and serves the read-only queries that need
// no exclusivity. WithinTx commits when fn returns nil and rolls back
// otherwise; a commit-time conflict surfaces as ErrTxAborted.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// ListPending returns active PENDING/PREPARING orders oldest first.
	ListPending(ctx context.Context) ([]PendingOrder, error)
	// SalesByRange returns PAID orders created within [from, to].
	SalesByRange(ctx context.Context, from, to time.Time) ([]SaleRecord, error)
}
