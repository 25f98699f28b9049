package orders

import "testing"

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		tableID int64
		items   []ItemRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			tableID: 1,
			items:   []ItemRequest{{ProductID: 1, Quantity: 2}},
			wantErr: false,
		},
		{
			name:    "zero table id",
			tableID: 0,
			items:   []ItemRequest{{ProductID: 1, Quantity: 2}},
			wantErr: true,
		},
		{
			name:    "no items",
			tableID: 1,
			items:   nil,
			wantErr: true,
		},
		{
			name:    "zero quantity",
			tableID: 1,
			items:   []ItemRequest{{ProductID: 1, Quantity: 0}},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			tableID: 1,
			items:   []ItemRequest{{ProductID: 1, Quantity: -3}},
			wantErr: true,
		},
		{
			name:    "bad product id in second item",
			tableID: 1,
			items:   []ItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 0, Quantity: 1}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(tt.tableID, tt.items)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
