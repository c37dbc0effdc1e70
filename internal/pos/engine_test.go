package pos

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmsys/m/domain"
)

// memStore is an in-memory Store with the same commit semantics as the
// SQL implementation: decrements are re-checked under the lock and either
// everything lands or nothing does.
type memStore struct {
	mu         sync.Mutex
	items      map[int64]domain.Medicine
	sales      []domain.Sale
	nextSaleID int64
	commitErr  error
}

func newMemStore(items ...domain.Medicine) *memStore {
	m := &memStore{items: make(map[int64]domain.Medicine)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *memStore) Lookup(ctx context.Context, id int64) (domain.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.items[id]
	if !ok {
		return domain.Medicine{}, ErrItemNotFound
	}
	return med, nil
}

func (m *memStore) ListAll(ctx context.Context) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Sale, len(m.sales))
	copy(out, m.sales)
	return out, nil
}

func (m *memStore) Commit(ctx context.Context, sale *domain.Sale, decrements []StockDecrement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.commitErr != nil {
		return &StorageError{Op: "commit sale", Err: m.commitErr}
	}
	for _, d := range decrements {
		if m.items[d.MedicineID].Stock < d.Quantity {
			return ErrStockConflict
		}
	}
	for _, d := range decrements {
		med := m.items[d.MedicineID]
		med.Stock -= d.Quantity
		m.items[d.MedicineID] = med
	}
	m.nextSaleID++
	sale.ID = m.nextSaleID
	sale.CreatedAt = time.Now().UTC()
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	m.sales = append(m.sales, *sale)
	return nil
}

func (m *memStore) stock(id int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Stock
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func paracetamol(stock int64) domain.Medicine {
	return domain.Medicine{ID: 1, Name: "Paracetamol 500mg", MRP: price("50.00"), Stock: stock}
}

func amoxicillin(stock int64) domain.Medicine {
	return domain.Medicine{ID: 2, Name: "Amoxicillin 250mg", MRP: price("120.50"), Stock: stock}
}

func TestSubmitSale_Success(t *testing.T) {
	store := newMemStore(paracetamol(10), amoxicillin(5))
	engine := NewEngine(store)

	sale, err := engine.SubmitSale(context.Background(), []SaleLineRequest{
		{MedicineID: 1, Quantity: 3},
		{MedicineID: 2, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), sale.ID)
	assert.False(t, sale.CreatedAt.IsZero())
	require.Len(t, sale.Items, 2)

	assert.Equal(t, "Paracetamol 500mg", sale.Items[0].MedicineName)
	assert.True(t, sale.Items[0].UnitPrice.Equal(price("50.00")))
	assert.True(t, sale.Items[0].LineTotal.Equal(price("150.00")))
	assert.True(t, sale.Items[1].LineTotal.Equal(price("241.00")))
	assert.True(t, sale.TotalAmount.Equal(price("391.00")))

	assert.Equal(t, int64(7), store.stock(1))
	assert.Equal(t, int64(3), store.stock(2))
}

func TestSubmitSale_TotalIsExactSumOfLines(t *testing.T) {
	// 0.10 added many times drifts under float arithmetic; the total must
	// equal the exact sum of line totals regardless of line order.
	store := newMemStore(domain.Medicine{ID: 7, Name: "Syrup", MRP: price("0.10"), Stock: 1000})
	engine := NewEngine(store)

	lines := make([]SaleLineRequest, 0, 100)
	for i := 0; i < 100; i++ {
		lines = append(lines, SaleLineRequest{MedicineID: 7, Quantity: 1})
	}
	sale, err := engine.SubmitSale(context.Background(), lines)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, it := range sale.Items {
		sum = sum.Add(it.LineTotal)
	}
	assert.True(t, sale.TotalAmount.Equal(sum))
	assert.True(t, sale.TotalAmount.Equal(price("10.00")))
}

func TestSubmitSale_EmptyOrder(t *testing.T) {
	store := newMemStore(paracetamol(10))
	engine := NewEngine(store)

	_, err := engine.SubmitSale(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Equal(t, int64(10), store.stock(1))
}

func TestSubmitSale_UnknownItem(t *testing.T) {
	store := newMemStore(paracetamol(10))
	engine := NewEngine(store)

	_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{
		{MedicineID: 1, Quantity: 1},
		{MedicineID: 99, Quantity: 1},
	})

	var unknown *UnknownItemError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int64(99), unknown.MedicineID)

	// No sale recorded, no identifier consumed, no stock touched.
	sales, listErr := store.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, sales)
	assert.Equal(t, int64(10), store.stock(1))
}

func TestSubmitSale_InvalidQuantity(t *testing.T) {
	store := newMemStore(paracetamol(10))
	engine := NewEngine(store)

	for _, qty := range []int64{0, -3} {
		_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: qty}})

		var invalid *InvalidQuantityError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, int64(1), invalid.MedicineID)
		assert.Equal(t, qty, invalid.Quantity)
	}
	assert.Equal(t, int64(10), store.stock(1))
}

func TestSubmitSale_InsufficientStock(t *testing.T) {
	store := newMemStore(paracetamol(10), amoxicillin(5))
	engine := NewEngine(store)

	_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{
		{MedicineID: 1, Quantity: 4},
		{MedicineID: 2, Quantity: 6},
	})

	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(2), short.MedicineID)
	assert.Equal(t, int64(5), short.Available)
	assert.Equal(t, int64(6), short.Requested)

	// No partial decrement of the first line either.
	assert.Equal(t, int64(10), store.stock(1))
	assert.Equal(t, int64(5), store.stock(2))
}

func TestSubmitSale_DuplicateLinesAggregate(t *testing.T) {
	store := newMemStore(paracetamol(10))
	engine := NewEngine(store)

	sale, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: 3}})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(price("150.00")))
	assert.Equal(t, int64(7), store.stock(1))

	// 3 + 9 = 12 exceeds the remaining 7 even though each line fits alone.
	_, err = engine.SubmitSale(context.Background(), []SaleLineRequest{
		{MedicineID: 1, Quantity: 3},
		{MedicineID: 1, Quantity: 9},
	})

	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(1), short.MedicineID)
	assert.Equal(t, int64(7), short.Available)
	assert.Equal(t, int64(12), short.Requested)
	assert.Equal(t, int64(7), store.stock(1))
}

func TestSubmitSale_DuplicateLinesCommitOnce(t *testing.T) {
	store := newMemStore(paracetamol(10))
	engine := NewEngine(store)

	sale, err := engine.SubmitSale(context.Background(), []SaleLineRequest{
		{MedicineID: 1, Quantity: 2},
		{MedicineID: 1, Quantity: 3},
	})
	require.NoError(t, err)

	// Both lines persist independently but decrement as one aggregate.
	require.Len(t, sale.Items, 2)
	assert.True(t, sale.TotalAmount.Equal(price("250.00")))
	assert.Equal(t, int64(5), store.stock(1))
}

func TestSubmitSale_FailureIsIdempotent(t *testing.T) {
	store := newMemStore(paracetamol(3))
	engine := NewEngine(store)

	for i := 0; i < 3; i++ {
		_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: 5}})

		var short *InsufficientStockError
		require.ErrorAs(t, err, &short)
		assert.Equal(t, int64(3), short.Available)
		assert.Equal(t, int64(5), short.Requested)
	}
	assert.Equal(t, int64(3), store.stock(1))

	sales, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSubmitSale_StorageFailure(t *testing.T) {
	store := newMemStore(paracetamol(10))
	store.commitErr = errors.New("disk full")
	engine := NewEngine(store)

	_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: 1}})

	var storage *StorageError
	require.ErrorAs(t, err, &storage)
	assert.Equal(t, int64(10), store.stock(1))
}

func TestSubmitSale_ConcurrentContention(t *testing.T) {
	const (
		initialStock  = 20
		totalRequests = 50
	)
	store := newMemStore(paracetamol(initialStock))
	engine := NewEngine(store)

	var (
		successes atomic.Int32
		conflicts atomic.Int32
		wg        sync.WaitGroup
	)
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: 1}})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrStockConflict):
				conflicts.Add(1)
			default:
				var short *InsufficientStockError
				assert.ErrorAs(t, err, &short)
			}
		}()
	}
	wg.Wait()

	// Exactly initialStock submissions win; stock never goes negative.
	assert.Equal(t, int32(initialStock), successes.Load())
	assert.Equal(t, int64(0), store.stock(1))

	sales, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, sales, initialStock)
}

func TestSubmitSale_IdentifiersIncreaseInCommitOrder(t *testing.T) {
	store := newMemStore(paracetamol(100))
	engine := NewEngine(store)

	var last int64
	for i := 0; i < 5; i++ {
		sale, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: 1}})
		require.NoError(t, err)
		assert.Greater(t, sale.ID, last)
		last = sale.ID
	}
}

func TestSubmitSale_SnapshotSurvivesReprice(t *testing.T) {
	store := newMemStore(paracetamol(10))
	engine := NewEngine(store)

	_, err := engine.SubmitSale(context.Background(), []SaleLineRequest{{MedicineID: 1, Quantity: 1}})
	require.NoError(t, err)

	// Reprice and rename the catalog entry after the sale.
	store.mu.Lock()
	med := store.items[1]
	med.Name = "Paracetamol XR"
	med.MRP = price("80.00")
	store.items[1] = med
	store.mu.Unlock()

	sales, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Paracetamol 500mg", sales[0].Items[0].MedicineName)
	assert.True(t, sales[0].Items[0].UnitPrice.Equal(price("50.00")))
}
