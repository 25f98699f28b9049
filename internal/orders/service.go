package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "restaurant-orders/internal/kafka"
	"restaurant-orders/internal/redisx"
)

// EventPublisher is what the engine needs from the message bus.
// *kafka.Producer satisfies it; tests leave it nil.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service is the order transaction engine. Every Create/UpdateStatus
// call runs as one unit of work against the store: stock movement,
// order persistence and the table transition either all commit or none
// do. Events and cache writes happen after commit and are best-effort.
type Service struct {
	Store      Store
	PubCreated EventPublisher
	PubStatus  EventPublisher
	Cache      *redis.Client
	Log        *slog.Logger
	Name       string
}

// Create places an order on a table: guards the table, reserves stock
// per item in list order freezing prices, persists the order as PENDING
// and occupies the table.
func (s *Service) Create(ctx context.Context, tableID int64, items []ItemRequest) (*Order, error) {
	if err := ValidateCreate(tableID, items); err != nil {
		return nil, err
	}

	var created *Order
	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := claimTable(ctx, tx, tableID); err != nil {
			return err
		}

		var total float64
		lines := make([]OrderItem, 0, len(items))
		for _, it := range items {
			p, err := reserveStock(ctx, tx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			total += p.Price * float64(it.Quantity)
			lines = append(lines, OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				Price:     p.Price, // snapshot, never recomputed
			})
		}

		o, err := tx.CreateOrder(ctx, tableID, total, StatusPending, lines)
		if err != nil {
			return fmt.Errorf("persist order: %w", err)
		}
		if err := tx.SetTableStatus(ctx, tableID, TableOccupied); err != nil {
			return fmt.Errorf("occupy table %d: %w", tableID, err)
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger().InfoContext(ctx, "order created",
		"order_id", created.ID, "table_id", tableID, "total", created.Total)
	s.publishCreated(created)
	s.cacheStatus(ctx, created.ID, created.Status)
	return created, nil
}

// UpdateStatus moves an order to a new status and keeps inventory and
// the table in step. Only the first transition into CANCELLED releases
// stock, using the frozen line-item quantities; re-cancelling is a
// no-op on inventory.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, newStatus OrderStatus) (*Order, error) {
	if _, err := ParseOrderStatus(string(newStatus)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	var updated *Order
	var oldStatus OrderStatus
	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load order %d: %w", orderID, err)
		}
		if o == nil || !o.IsActive {
			return &NotFoundError{Kind: "order", ID: orderID}
		}
		if !CanTransition(o.Status, newStatus) {
			return &OrderClosedError{OrderID: orderID, Status: o.Status}
		}

		if newStatus == StatusCancelled && o.Status != StatusCancelled {
			for _, item := range o.Items {
				if err := releaseStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		if err := syncTableWithOrder(ctx, tx, o.TableID, newStatus); err != nil {
			return fmt.Errorf("sync table %d: %w", o.TableID, err)
		}
		if err := tx.SetOrderStatus(ctx, orderID, newStatus); err != nil {
			return fmt.Errorf("set order %d status: %w", orderID, err)
		}

		oldStatus = o.Status
		o.Status = newStatus
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger().InfoContext(ctx, "order status updated",
		"order_id", updated.ID, "from", string(oldStatus), "to", string(updated.Status))
	s.publishStatusChanged(updated, oldStatus)
	s.cacheStatus(ctx, updated.ID, updated.Status)
	return updated, nil
}

// ListPending returns the kitchen queue: active PENDING/PREPARING
// orders oldest first, enriched with product and table details.
func (s *Service) ListPending(ctx context.Context) ([]PendingOrder, error) {
	return s.Store.ListPending(ctx)
}

func (s *Service) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *Service) publishCreated(o *Order) {
	if s.PubCreated == nil {
		return
	}
	lines := make([]ItemLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, ItemLine{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		CorrelationID: fmt.Sprintf("%d", o.ID),
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderID: o.ID, TableID: o.TableID, Total: o.Total, Items: lines,
		}),
	}
	s.PubCreated.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishStatusChanged(o *Order, old OrderStatus) {
	if s.PubStatus == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		CorrelationID: fmt.Sprintf("%d", o.ID),
		Payload: kafkax.MustMarshal(OrderStatusChangedPayload{
			OrderID: o.ID, TableID: o.TableID, OldStatus: old, NewStatus: o.Status,
		}),
	}
	s.PubStatus.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) cacheStatus(ctx context.Context, orderID int64, status OrderStatus) {
	if s.Cache == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body := fmt.Sprintf(`{"status":%q}`, status)
	if err := s.Cache.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		s.logger().WarnContext(ctx, "status cache write failed", "order_id", orderID, "err", err)
	}
}
