package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-orders/internal/orders"
)

// Store implements orders.Store on a pgx pool. Each unit of work is one
// database transaction; GetTable/GetProduct lock their rows FOR UPDATE
// so stock checks and decrements cannot interleave across transactions.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{Pool: pool} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx orders.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapTxErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &sqlTx{tx: tx}); err != nil {
		return mapTxErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxErr(err)
	}
	return nil
}

// mapTxErr surfaces serialization failures and deadlocks as
// orders.ErrTxAborted; business errors pass through untouched.
func mapTxErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %v", orders.ErrTxAborted, err)
		}
	}
	return err
}

type sqlTx struct {
	tx pgx.Tx
}

func (t *sqlTx) GetTable(ctx context.Context, id int64) (*orders.Table, error) {
	var tb orders.Table
	err := t.tx.QueryRow(ctx, `
		SELECT id, number, capacity, status, description, is_active
		FROM tables WHERE id = $1
		FOR UPDATE`, id).
		Scan(&tb.ID, &tb.Number, &tb.Capacity, &tb.Status, &tb.Description, &tb.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tb, nil
}

func (t *sqlTx) SetTableStatus(ctx context.Context, id int64, status orders.TableStatus) error {
	ct, err := t.tx.Exec(ctx, `UPDATE tables SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("table %d not updated", id)
	}
	return nil
}

func (t *sqlTx) GetProduct(ctx context.Context, id int64) (*orders.Product, error) {
	var p orders.Product
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, description, price, stock, category, is_active, created_at, updated_at
		FROM products WHERE id = $1
		FOR UPDATE`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *sqlTx) AdjustProductStock(ctx context.Context, id int64, delta int) error {
	// The WHERE clause is the last line of defense against negative
	// stock; callers are expected to have checked already.
	ct, err := t.tx.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0`, id, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("stock adjustment of %+d for product %d refused", delta, id)
	}
	return nil
}

func (t *sqlTx) CreateOrder(ctx context.Context, tableID int64, total float64, status orders.OrderStatus, items []orders.OrderItem) (*orders.Order, error) {
	o := &orders.Order{
		TableID:  tableID,
		Total:    total,
		Status:   status,
		IsActive: true,
	}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (table_id, total, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, tableID, total, string(status)).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	o.Items = make([]orders.OrderItem, 0, len(items))
	for _, it := range items {
		it.OrderID = o.ID
		err := t.tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, o.ID, it.ProductID, it.Quantity, it.Price).
			Scan(&it.ID)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return o, nil
}

func (t *sqlTx) GetOrder(ctx context.Context, id int64) (*orders.Order, error) {
	var o orders.Order
	err := t.tx.QueryRow(ctx, `
		SELECT id, table_id, total, status, is_active, created_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.TableID, &o.Total, &o.Status, &o.IsActive, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it orders.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

func (t *sqlTx) SetOrderStatus(ctx context.Context, id int64, status orders.OrderStatus) error {
	ct, err := t.tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("order %d not updated", id)
	}
	return nil
}

func (s *Store) ListPending(ctx context.Context) ([]orders.PendingOrder, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT o.id, o.table_id, t.number, t.description, o.total, o.status, o.created_at
		FROM orders o
		JOIN tables t ON t.id = o.table_id
		WHERE o.status IN ('PENDING', 'PREPARING') AND o.is_active
		ORDER BY o.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orders.PendingOrder{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var po orders.PendingOrder
		if err := rows.Scan(&po.ID, &po.TableID, &po.TableNumber, &po.TableDescription,
			&po.Total, &po.Status, &po.CreatedAt); err != nil {
			return nil, err
		}
		po.Items = []orders.PendingItem{}
		index[po.ID] = len(out)
		ids = append(ids, po.ID)
		out = append(out, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	itemRows, err := s.Pool.Query(ctx, `
		SELECT i.order_id, i.product_id, p.name, p.category, i.quantity, i.price
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var orderID int64
		var it orders.PendingItem
		if err := itemRows.Scan(&orderID, &it.ProductID, &it.ProductName,
			&it.Category, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		i := index[orderID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, itemRows.Err()
}

func (s *Store) SalesByRange(ctx context.Context, from, to time.Time) ([]orders.SaleRecord, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT o.id, o.total, t.number
		FROM orders o
		JOIN tables t ON t.id = o.table_id
		WHERE o.status = 'PAID' AND o.created_at BETWEEN $1 AND $2`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.SaleRecord
	for rows.Next() {
		var rec orders.SaleRecord
		if err := rows.Scan(&rec.OrderID, &rec.Total, &rec.TableNumber); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
