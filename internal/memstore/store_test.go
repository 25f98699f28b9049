package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/orders"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	st := New()
	p := st.AddProduct(orders.Product{Name: "Cafe", Price: 3, Stock: 10, IsActive: true})
	tb := st.AddTable(orders.Table{Number: "1", Status: orders.TableAvailable, IsActive: true})

	boom := errors.New("boom")
	err := st.WithinTx(context.Background(), func(ctx context.Context, tx orders.Tx) error {
		require.NoError(t, tx.AdjustProductStock(ctx, p.ID, -4))
		require.NoError(t, tx.SetTableStatus(ctx, tb.ID, orders.TableOccupied))
		_, err := tx.CreateOrder(ctx, tb.ID, 12, orders.StatusPending, []orders.OrderItem{
			{ProductID: p.ID, Quantity: 4, Price: 3},
		})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := st.Product(p.ID)
	assert.Equal(t, 10, got.Stock, "stock restored on rollback")
	table, _ := st.Table(tb.ID)
	assert.Equal(t, orders.TableAvailable, table.Status, "table restored on rollback")

	err = st.WithinTx(context.Background(), func(ctx context.Context, tx orders.Tx) error {
		o, err := tx.GetOrder(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, o, "phantom order must not survive rollback")
		return nil
	})
	require.NoError(t, err)
}

func TestAdjustProductStockRefusesNegative(t *testing.T) {
	st := New()
	p := st.AddProduct(orders.Product{Name: "Cafe", Price: 3, Stock: 2, IsActive: true})

	err := st.WithinTx(context.Background(), func(ctx context.Context, tx orders.Tx) error {
		return tx.AdjustProductStock(ctx, p.ID, -3)
	})
	require.Error(t, err)

	got, _ := st.Product(p.ID)
	assert.Equal(t, 2, got.Stock)
}

func TestCreateOrderAssignsIDs(t *testing.T) {
	st := New()
	tb := st.AddTable(orders.Table{Number: "1", Status: orders.TableAvailable, IsActive: true})
	p := st.AddProduct(orders.Product{Name: "Cafe", Price: 3, Stock: 10, IsActive: true})

	var first, second *orders.Order
	err := st.WithinTx(context.Background(), func(ctx context.Context, tx orders.Tx) error {
		var err error
		first, err = tx.CreateOrder(ctx, tb.ID, 3, orders.StatusPending,
			[]orders.OrderItem{{ProductID: p.ID, Quantity: 1, Price: 3}})
		if err != nil {
			return err
		}
		second, err = tx.CreateOrder(ctx, tb.ID, 6, orders.StatusPending,
			[]orders.OrderItem{{ProductID: p.ID, Quantity: 2, Price: 3}})
		return err
	})
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	require.Len(t, first.Items, 1)
	assert.Equal(t, first.ID, first.Items[0].OrderID)
	assert.NotZero(t, first.Items[0].ID)
	assert.False(t, first.CreatedAt.IsZero())
}
