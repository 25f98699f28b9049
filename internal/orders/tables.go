package orders

import (
	"context"
	"fmt"
)

// Table state machine. Occupancy is a derived reflection of the live
// order on the table: creating an order occupies it, closing the order
// frees it, kitchen progress re-asserts occupancy. RESERVED is set
// manually outside the order flow; a reserved table still accepts an
// order and becomes OCCUPIED.

// claimTable loads and guards a table for a new order. The lookup locks
// the row for the rest of the unit of work, so two concurrent creates
// on the same table cannot both observe it free.
func claimTable(ctx context.Context, tx Tx, tableID int64) (*Table, error) {
	t, err := tx.GetTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("load table %d: %w", tableID, err)
	}
	if t == nil || !t.IsActive {
		return nil, &NotFoundError{Kind: "table", ID: tableID}
	}
	if t.Status == TableOccupied {
		return nil, &TableOccupiedError{TableID: tableID}
	}
	return t, nil
}

// syncTableWithOrder keeps the table in lockstep with its order's
// status: PAID/CANCELLED free it, PREPARING/DELIVERED re-assert
// occupancy, anything else leaves it alone.
func syncTableWithOrder(ctx context.Context, tx Tx, tableID int64, status OrderStatus) error {
	switch status {
	case StatusPaid, StatusCancelled:
		return tx.SetTableStatus(ctx, tableID, TableAvailable)
	case StatusPreparing, StatusDelivered:
		return tx.SetTableStatus(ctx, tableID, TableOccupied)
	}
	return nil
}
