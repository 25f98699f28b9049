package redisx

import "time"

const (
	// Order status cache: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%d"

	// Sales report cache: sales:{start}:{end} -> SalesDetail JSON
	KeySalesReport = "sales:%s:%s"

	// Kitchen queue snapshot (pending orders JSON)
	KeyKitchenQueue = "kitchen:queue"

	// Consumer dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache  = 5 * time.Minute
	TTLSalesReport  = 1 * time.Minute
	TTLKitchenQueue = 10 * time.Minute
	TTLDedup        = 48 * time.Hour
)
