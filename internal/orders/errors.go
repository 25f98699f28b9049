package orders

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the order core. All business-rule failures are
// detected before any write inside the unit of work, so a returned error
// always means the whole unit rolled back.
var (
	ErrInvalidRange = errors.New("start date is after end date")
	ErrFutureRange  = errors.New("end date is in the future")

	// ErrTxAborted means the atomic unit failed to commit (e.g. a
	// concurrent conflict). Re-attempting the whole operation is safe:
	// it re-validates state from scratch.
	ErrTxAborted = errors.New("transaction aborted")
)

// NotFoundError covers tables, products and orders that are absent or
// soft-deleted.
type NotFoundError struct {
	Kind string // "table", "product", "order"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found or inactive", e.Kind, e.ID)
}

// TableOccupiedError rejects a new order on a table that already has a
// live one.
type TableOccupiedError struct {
	TableID int64
}

func (e *TableOccupiedError) Error() string {
	return fmt.Sprintf("table %d is already occupied, close the previous order first", e.TableID)
}

// InsufficientStockError carries enough context to tell the caller what
// was asked for versus what was available.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// OrderClosedError rejects status changes on orders that are already
// PAID or CANCELLED.
type OrderClosedError struct {
	OrderID int64
	Status  OrderStatus
}

func (e *OrderClosedError) Error() string {
	return fmt.Sprintf("order %d is %s and can no longer change status", e.OrderID, e.Status)
}

// ValidationError rejects malformed input before the engine touches the
// store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
