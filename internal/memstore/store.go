// Package memstore is an in-memory orders.Store used by tests and
// local runs without PostgreSQL. A single mutex held for the whole unit
// of work gives the same serializable behavior the SQL store gets from
// row locks; rollback restores a snapshot taken at Begin.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"restaurant-orders/internal/orders"
)

type Store struct {
	mu         sync.Mutex
	products   map[int64]*orders.Product
	tables     map[int64]*orders.Table
	orders     map[int64]*orders.Order
	nextOrder  int64
	nextItem   int64
	nextEntity int64
}

func New() *Store {
	return &Store{
		products:   map[int64]*orders.Product{},
		tables:     map[int64]*orders.Table{},
		orders:     map[int64]*orders.Order{},
		nextOrder:  1,
		nextItem:   1,
		nextEntity: 1,
	}
}

// AddProduct seeds the catalog. Zero ID gets the next free one.
func (s *Store) AddProduct(p orders.Product) orders.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextEntity
		s.nextEntity++
	}
	s.products[p.ID] = &p
	return p
}

func (s *Store) AddTable(t orders.Table) orders.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextEntity
		s.nextEntity++
	}
	s.tables[t.ID] = &t
	return t
}

// AddOrder seeds a pre-existing order, e.g. historical PAID ones for
// sales tests. CreatedAt is kept as given.
func (s *Store) AddOrder(o orders.Order) orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.nextOrder
		s.nextOrder++
	}
	for i := range o.Items {
		if o.Items[i].ID == 0 {
			o.Items[i].ID = s.nextItem
			s.nextItem++
		}
		o.Items[i].OrderID = o.ID
	}
	s.orders[o.ID] = &o
	return s.snapshotOrder(&o)
}

// Product returns a copy of the current product row, for assertions.
func (s *Store) Product(id int64) (orders.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return orders.Product{}, false
	}
	return *p, true
}

func (s *Store) Table(id int64) (orders.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return orders.Table{}, false
	}
	return *t, true
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx orders.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type state struct {
	products  map[int64]*orders.Product
	tables    map[int64]*orders.Table
	orders    map[int64]*orders.Order
	nextOrder int64
	nextItem  int64
}

func (s *Store) snapshot() state {
	st := state{
		products:  make(map[int64]*orders.Product, len(s.products)),
		tables:    make(map[int64]*orders.Table, len(s.tables)),
		orders:    make(map[int64]*orders.Order, len(s.orders)),
		nextOrder: s.nextOrder,
		nextItem:  s.nextItem,
	}
	for id, p := range s.products {
		cp := *p
		st.products[id] = &cp
	}
	for id, t := range s.tables {
		ct := *t
		st.tables[id] = &ct
	}
	for id, o := range s.orders {
		co := *o
		co.Items = append([]orders.OrderItem(nil), o.Items...)
		st.orders[id] = &co
	}
	return st
}

func (s *Store) restore(st state) {
	s.products = st.products
	s.tables = st.tables
	s.orders = st.orders
	s.nextOrder = st.nextOrder
	s.nextItem = st.nextItem
}

func (s *Store) snapshotOrder(o *orders.Order) orders.Order {
	co := *o
	co.Items = append([]orders.OrderItem(nil), o.Items...)
	return co
}

type memTx struct {
	s *Store
}

func (t *memTx) GetTable(ctx context.Context, id int64) (*orders.Table, error) {
	tb, ok := t.s.tables[id]
	if !ok {
		return nil, nil
	}
	cp := *tb
	return &cp, nil
}

func (t *memTx) SetTableStatus(ctx context.Context, id int64, status orders.TableStatus) error {
	tb, ok := t.s.tables[id]
	if !ok {
		return fmt.Errorf("table %d not updated", id)
	}
	tb.Status = status
	return nil
}

func (t *memTx) GetProduct(ctx context.Context, id int64) (*orders.Product, error) {
	p, ok := t.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) AdjustProductStock(ctx context.Context, id int64, delta int) error {
	p, ok := t.s.products[id]
	if !ok {
		return fmt.Errorf("product %d not updated", id)
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("stock adjustment of %+d for product %d refused", delta, id)
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return nil
}

func (t *memTx) CreateOrder(ctx context.Context, tableID int64, total float64, status orders.OrderStatus, items []orders.OrderItem) (*orders.Order, error) {
	o := &orders.Order{
		ID:        t.s.nextOrder,
		TableID:   tableID,
		Total:     total,
		Status:    status,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	t.s.nextOrder++
	for _, it := range items {
		it.ID = t.s.nextItem
		t.s.nextItem++
		it.OrderID = o.ID
		o.Items = append(o.Items, it)
	}
	t.s.orders[o.ID] = o
	out := t.s.snapshotOrder(o)
	return &out, nil
}

func (t *memTx) GetOrder(ctx context.Context, id int64) (*orders.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := t.s.snapshotOrder(o)
	return &cp, nil
}

func (t *memTx) SetOrderStatus(ctx context.Context, id int64, status orders.OrderStatus) error {
	o, ok := t.s.orders[id]
	if !ok {
		return fmt.Errorf("order %d not updated", id)
	}
	o.Status = status
	return nil
}

func (s *Store) ListPending(ctx context.Context) ([]orders.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []orders.PendingOrder{}
	for _, o := range s.orders {
		if !o.IsActive || (o.Status != orders.StatusPending && o.Status != orders.StatusPreparing) {
			continue
		}
		po := orders.PendingOrder{
			ID:        o.ID,
			TableID:   o.TableID,
			Total:     o.Total,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			Items:     []orders.PendingItem{},
		}
		if tb, ok := s.tables[o.TableID]; ok {
			po.TableNumber = tb.Number
			po.TableDescription = tb.Description
		}
		for _, it := range o.Items {
			pi := orders.PendingItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
			if p, ok := s.products[it.ProductID]; ok {
				pi.ProductName = p.Name
				pi.Category = p.Category
			}
			po.Items = append(po.Items, pi)
		}
		out = append(out, po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SalesByRange(ctx context.Context, from, to time.Time) ([]orders.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orders.SaleRecord
	for _, o := range s.orders {
		if o.Status != orders.StatusPaid {
			continue
		}
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		rec := orders.SaleRecord{OrderID: o.ID, Total: o.Total}
		if tb, ok := s.tables[o.TableID]; ok {
			rec.TableNumber = tb.Number
		}
		out = append(out, rec)
	}
	return out, nil
}
