package orders

import "fmt"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusPaid      OrderStatus = "PAID"
	StatusCancelled OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusPreparing, StatusDelivered, StatusPaid, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Closed returns true once the order is immutable (terminal state).
func (s OrderStatus) Closed() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Live reports whether an order in this status keeps its table occupied.
func (s OrderStatus) Live() bool {
	return s == StatusPending || s == StatusPreparing || s == StatusDelivered
}

// CanTransition says whether an order may move from one status to another.
// Open orders may move anywhere; closed orders accept only an idempotent
// re-assertion of the same status (re-cancelling a cancelled order is a
// no-op, not an error).
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	return !from.Closed()
}

type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
)

func ParseTableStatus(s string) (TableStatus, error) {
	switch TableStatus(s) {
	case TableAvailable, TableOccupied, TableReserved:
		return TableStatus(s), nil
	}
	return "", fmt.Errorf("unknown table status %q", s)
}
