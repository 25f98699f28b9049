package orders

import "testing"

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{"PENDING", StatusPending, false},
		{"PREPARING", StatusPreparing, false},
		{"DELIVERED", StatusDelivered, false},
		{"PAID", StatusPaid, false},
		{"CANCELLED", StatusCancelled, false},
		{"pending", "", true},
		{"SHIPPED", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrderStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseOrderStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to preparing", StatusPending, StatusPreparing, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"delivered to paid", StatusDelivered, StatusPaid, true},
		{"same status is idempotent", StatusPreparing, StatusPreparing, true},
		{"re-cancel is idempotent", StatusCancelled, StatusCancelled, true},
		{"paid is terminal", StatusPaid, StatusPreparing, false},
		{"cancelled cannot reopen", StatusCancelled, StatusPending, false},
		{"paid cannot be cancelled", StatusPaid, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPreparing, StatusDelivered} {
		if s.Closed() {
			t.Errorf("%s should not be closed", s)
		}
		if !s.Live() {
			t.Errorf("%s should be live", s)
		}
	}
	for _, s := range []OrderStatus{StatusPaid, StatusCancelled} {
		if !s.Closed() {
			t.Errorf("%s should be closed", s)
		}
		if s.Live() {
			t.Errorf("%s should not be live", s)
		}
	}
}
