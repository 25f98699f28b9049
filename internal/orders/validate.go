package orders

import "fmt"

type ItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ValidateCreate checks shape before the engine opens a unit of work.
func ValidateCreate(tableID int64, items []ItemRequest) error {
	if tableID <= 0 {
		return &ValidationError{Msg: "table_id must be positive"}
	}
	if len(items) == 0 {
		return &ValidationError{Msg: "order must contain at least one item"}
	}
	for i, it := range items {
		if it.ProductID <= 0 {
			return &ValidationError{Msg: fmt.Sprintf("items[%d]: product_id must be positive", i)}
		}
		if it.Quantity <= 0 {
			return &ValidationError{Msg: fmt.Sprintf("items[%d]: quantity must be positive", i)}
		}
	}
	return nil
}
