// Package kitchen keeps the kitchen display in sync: it consumes order
// lifecycle events and refreshes the cached pending queue that the API
// and wall displays read.
package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "restaurant-orders/internal/kafka"
	"restaurant-orders/internal/orders"
	"restaurant-orders/internal/redisx"
)

type Service struct {
	Store orders.Store
	Redis *redis.Client
	Log   *slog.Logger
	Name  string
}

// HandleOrderEvent is the consumer handler for both order topics.
// Redelivered events are dropped via a redis dedup key on event id.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated && env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "kitchen", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Log.InfoContext(ctx, "order hit the queue",
			"order_id", p.OrderID, "table_id", p.TableID, "items", len(p.Items))
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Log.InfoContext(ctx, "order status changed",
			"order_id", p.OrderID, "from", string(p.OldStatus), "to", string(p.NewStatus))
	}

	return s.refreshQueue(ctx)
}

// refreshQueue rebuilds the cached pending-orders snapshot.
func (s *Service) refreshQueue(ctx context.Context) error {
	pending, err := s.Store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	b, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, redisx.KeyKitchenQueue, b, redisx.TTLKitchenQueue).Err()
}
