package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/memstore"
	"restaurant-orders/internal/orders"
)

var bogota = time.FixedZone("-05:00", -5*60*60)

func seedSales(t *testing.T) (*memstore.Store, *orders.Service) {
	t.Helper()
	st := memstore.New()
	t1 := st.AddTable(orders.Table{Number: "1", Status: orders.TableAvailable, IsActive: true})
	t2 := st.AddTable(orders.Table{Number: "2", Status: orders.TableAvailable, IsActive: true})

	day := time.Date(2024, 3, 1, 13, 0, 0, 0, bogota)
	st.AddOrder(orders.Order{TableID: t1.ID, Total: 100, Status: orders.StatusPaid, IsActive: true, CreatedAt: day})
	st.AddOrder(orders.Order{TableID: t1.ID, Total: 50, Status: orders.StatusPaid, IsActive: true, CreatedAt: day.Add(time.Hour)})
	st.AddOrder(orders.Order{TableID: t2.ID, Total: 200, Status: orders.StatusPaid, IsActive: true, CreatedAt: day.Add(2 * time.Hour)})

	// Noise: not PAID, and PAID but outside the range.
	st.AddOrder(orders.Order{TableID: t2.ID, Total: 999, Status: orders.StatusPending, IsActive: true, CreatedAt: day})
	st.AddOrder(orders.Order{TableID: t1.ID, Total: 999, Status: orders.StatusPaid, IsActive: true,
		CreatedAt: time.Date(2024, 2, 28, 13, 0, 0, 0, bogota)})

	return st, &orders.Service{Store: st}
}

func TestSalesDetail(t *testing.T) {
	_, svc := seedSales(t)

	got, err := svc.SalesDetail(context.Background(), "2024-03-01", "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, 350.0, got.Total)
	assert.Equal(t, 116.67, got.AverageTicket, "average rounds to 2 decimals")
	assert.Equal(t, "2", got.BestSellingTable.Name)
	assert.Equal(t, 200.0, got.BestSellingTable.Total)
	assert.Equal(t, "COP", got.Currency)

	// Bounds span the full days.
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, bogota).Unix(), got.StartDate.Unix())
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, int(999*time.Millisecond), bogota).Unix(), got.EndDate.Unix())
}

func TestSalesDetailMultiDayRange(t *testing.T) {
	_, svc := seedSales(t)

	got, err := svc.SalesDetail(context.Background(), "2024-02-28", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, 1349.0, got.Total)
	assert.Equal(t, "1", got.BestSellingTable.Name, "out-of-noise order lands on table 1")
}

func TestSalesDetailEmptyRange(t *testing.T) {
	_, svc := seedSales(t)

	got, err := svc.SalesDetail(context.Background(), "2024-01-01", "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
	assert.Equal(t, 0.0, got.Total)
	assert.Equal(t, 0.0, got.AverageTicket)
	assert.Equal(t, orders.TableSales{Name: "Ninguna", Total: 0}, got.BestSellingTable)
}

func TestSalesDetailValidation(t *testing.T) {
	_, svc := seedSales(t)
	ctx := context.Background()

	_, err := svc.SalesDetail(ctx, "2024-03-05", "2024-03-01")
	assert.ErrorIs(t, err, orders.ErrInvalidRange)

	_, err = svc.SalesDetail(ctx, "2024-03-01", "2999-01-01")
	assert.ErrorIs(t, err, orders.ErrFutureRange)

	var invalid *orders.ValidationError
	_, err = svc.SalesDetail(ctx, "01/03/2024", "")
	assert.ErrorAs(t, err, &invalid)
}

func TestSalesDetailDefaultsToToday(t *testing.T) {
	_, svc := seedSales(t)

	got, err := svc.SalesDetail(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count, "seeded sales are in the past")
	assert.Equal(t, "Ninguna", got.BestSellingTable.Name)
}
