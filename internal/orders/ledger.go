package orders

import (
	"context"
	"fmt"
)

// Inventory ledger: every stock mutation in the system goes through
// these helpers inside a unit of work, so the non-negativity invariant
// has a single owner.

// reserveStock decrements stock for a product if it exists, is active
// and has enough on hand. The product row stays locked until the unit
// of work ends, so the check and the decrement are one atomic step.
func reserveStock(ctx context.Context, tx Tx, productID int64, qty int) (*Product, error) {
	p, err := tx.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	if p == nil || !p.IsActive {
		return nil, &NotFoundError{Kind: "product", ID: productID}
	}
	if p.Stock < qty {
		return nil, &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   qty,
			Available:   p.Stock,
		}
	}
	if err := tx.AdjustProductStock(ctx, productID, -qty); err != nil {
		return nil, fmt.Errorf("reserve %d x product %d: %w", qty, productID, err)
	}
	p.Stock -= qty
	return p, nil
}

// releaseStock returns previously reserved quantities to the shelf.
// The quantities come from frozen line items, so the increment cannot
// overshoot; the store still refuses negative end states.
func releaseStock(ctx context.Context, tx Tx, productID int64, qty int) error {
	if err := tx.AdjustProductStock(ctx, productID, qty); err != nil {
		return fmt.Errorf("release %d x product %d: %w", qty, productID, err)
	}
	return nil
}

// AdjustStock applies a manual signed correction to a product's stock,
// refusing to withdraw more than is available. Catalog management calls
// this for deliveries and shrinkage counts.
func (s *Service) AdjustStock(ctx context.Context, productID int64, delta int) (*Product, error) {
	var out *Product
	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsActive {
			return &NotFoundError{Kind: "product", ID: productID}
		}
		if delta < 0 && p.Stock+delta < 0 {
			return &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   -delta,
				Available:   p.Stock,
			}
		}
		if err := tx.AdjustProductStock(ctx, productID, delta); err != nil {
			return err
		}
		p.Stock += delta
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
