package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

func TestAddOrRestock_NewProduct(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	product, err := ledger.AddOrRestock(ctx, "Coffee Maker", "SKU-001", 10, 15000, "2025-12-31")
	require.NoError(t, err)

	assert.Equal(t, "SKU-001", product.SKU)
	assert.Equal(t, 10, product.Quantity)
	assert.Equal(t, 15000.0, product.Price)
	assert.Equal(t, domain.StatusInStock, product.Status)
	assert.Equal(t, domain.DefaultManager, product.Manager)
	assert.Equal(t, "groceries", product.Category)
	assert.False(t, product.CreatedAt.IsZero())
}

func TestAddOrRestock_RestockKeepsFirstWriteFields(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	_, err := ledger.AddOrRestock(ctx, "Coffee Maker", "SKU-001", 10, 15000, "2025-12-31")
	require.NoError(t, err)

	// Different name, price and expiry must not win on restock.
	product, err := ledger.AddOrRestock(ctx, "Другая кофеварка", "SKU-001", 5, 99999, "2030-01-01")
	require.NoError(t, err)

	assert.Equal(t, 15, product.Quantity)
	assert.Equal(t, "Coffee Maker", product.Name)
	assert.Equal(t, 15000.0, product.Price)
	assert.Equal(t, "2025-12-31", product.Expiry)
}

func TestAddOrRestock_Validation(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	tests := []struct {
		name     string
		prodName string
		sku      string
		quantity int
		price    float64
	}{
		{"negative quantity", "Widget", "SKU-001", -1, 10},
		{"negative price", "Widget", "SKU-001", 1, -10},
		{"empty sku", "Widget", "", 1, 10},
		{"empty name", "", "SKU-001", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.AddOrRestock(ctx, tt.prodName, tt.sku, tt.quantity, tt.price, "")
			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr)

			count, _ := ledger.Count(ctx)
			assert.Zero(t, count, "failed add must not mutate the ledger")
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	ledger := NewMemoryLedger()

	_, err := ledger.Get(context.Background(), "SKU-404")
	var notFoundErr *domain.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "SKU-404", notFoundErr.SKU)
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()

	t.Run("updates allowed fields", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 10, 100, "")
		require.NoError(t, err)

		change, err := ledger.UpdateField(ctx, "SKU-001", "quantity", "15")
		require.NoError(t, err)
		assert.Equal(t, 10, change.Old)
		assert.Equal(t, 15, change.New)

		change, err = ledger.UpdateField(ctx, "SKU-001", "price", "250.5")
		require.NoError(t, err)
		assert.Equal(t, 100.0, change.Old)
		assert.Equal(t, 250.5, change.New)

		product, err := ledger.Get(ctx, "SKU-001")
		require.NoError(t, err)
		assert.Equal(t, 15, product.Quantity)
		assert.Equal(t, 250.5, product.Price)
	})

	t.Run("rejects fields outside the allow-list", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 10, 100, "")
		require.NoError(t, err)

		for _, field := range []string{"status", "manager", "category", "sku", "bogus"} {
			_, err := ledger.UpdateField(ctx, "SKU-001", field, "whatever")
			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr, "field %q must be rejected", field)
		}
	})

	t.Run("rejects uncoercible numeric values", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 10, 100, "")
		require.NoError(t, err)

		_, err = ledger.UpdateField(ctx, "SKU-001", "quantity", "ten")
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		_, err = ledger.UpdateField(ctx, "SKU-001", "price", "-5")
		assert.ErrorAs(t, err, &validationErr)

		product, err := ledger.Get(ctx, "SKU-001")
		require.NoError(t, err)
		assert.Equal(t, 10, product.Quantity, "failed update must not mutate")
		assert.Equal(t, 100.0, product.Price)
	})

	t.Run("not found", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.UpdateField(ctx, "SKU-404", "name", "x")
		var notFoundErr *domain.NotFoundError
		assert.ErrorAs(t, err, &notFoundErr)
	})
}

func TestConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 10, 100, "")
		require.NoError(t, err)

		remaining, err := ledger.Consume(ctx, "SKU-001", 3)
		require.NoError(t, err)
		assert.Equal(t, 7, remaining)
	})

	t.Run("insufficient stock leaves quantity unchanged", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 2, 100, "")
		require.NoError(t, err)

		_, err = ledger.Consume(ctx, "SKU-001", 5)
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 5, stockErr.Requested)

		product, err := ledger.Get(ctx, "SKU-001")
		require.NoError(t, err)
		assert.Equal(t, 2, product.Quantity)
		assert.Equal(t, domain.StatusInStock, product.Status)
	})

	t.Run("consuming the last unit flips status", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 2, 100, "")
		require.NoError(t, err)

		remaining, err := ledger.Consume(ctx, "SKU-001", 2)
		require.NoError(t, err)
		assert.Zero(t, remaining)

		product, err := ledger.Get(ctx, "SKU-001")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOutOfStock, product.Status)
	})
}

func TestSetStatus(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 2, 100, "")
	require.NoError(t, err)

	change, err := ledger.SetStatus(ctx, "SKU-001", domain.StatusReserved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInStock, change.Old)
	assert.Equal(t, domain.StatusReserved, change.New)

	_, err = ledger.SetStatus(ctx, "SKU-001", "vanished")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAssignManager(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 2, 100, "")
	require.NoError(t, err)

	change, err := ledger.AssignManager(ctx, "SKU-001", "Ivanova")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultManager, change.Old)
	assert.Equal(t, "Ivanova", change.New)

	_, err = ledger.AssignManager(ctx, "SKU-404", "Ivanova")
	var notFoundErr *domain.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestSell(t *testing.T) {
	ctx := context.Background()

	t.Run("records revenue and profit against recorded price", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Coffee Maker", "SKU-001", 10, 15000, "2025-12-31")
		require.NoError(t, err)

		sale, err := ledger.Sell(ctx, "SKU-001", 3, 18000)
		require.NoError(t, err)

		assert.Equal(t, 3, sale.Quantity)
		assert.Equal(t, 54000.0, sale.Revenue)
		assert.Equal(t, 9000.0, sale.Profit)
		assert.NotEmpty(t, sale.ID)
		assert.Equal(t, "Coffee Maker", sale.Name)

		product, err := ledger.Get(ctx, "SKU-001")
		require.NoError(t, err)
		assert.Equal(t, 7, product.Quantity)

		_, sales, err := ledger.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, *sale, sales[0])
	})

	t.Run("selling the last unit flips status", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 1, 100, "")
		require.NoError(t, err)

		_, err = ledger.Sell(ctx, "SKU-001", 1, 150)
		require.NoError(t, err)

		product, err := ledger.Get(ctx, "SKU-001")
		require.NoError(t, err)
		assert.Zero(t, product.Quantity)
		assert.Equal(t, domain.StatusOutOfStock, product.Status)
	})

	t.Run("insufficient stock records nothing", func(t *testing.T) {
		ledger := NewMemoryLedger()
		_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 1, 100, "")
		require.NoError(t, err)

		_, err = ledger.Sell(ctx, "SKU-001", 2, 150)
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)

		_, sales, err := ledger.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, sales)
	})
}

func TestSnapshot_Isolation(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", 10, 100, "")
	require.NoError(t, err)
	_, err = ledger.AddOrRestock(ctx, "Gadget", "SKU-002", 5, 200, "")
	require.NoError(t, err)

	catalog, sales, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Empty(t, sales)

	// Insertion order is preserved.
	assert.Equal(t, "SKU-001", catalog[0].SKU)
	assert.Equal(t, "SKU-002", catalog[1].SKU)

	// Later mutations must not leak into the earlier snapshot.
	_, err = ledger.Sell(ctx, "SKU-001", 10, 150)
	require.NoError(t, err)

	assert.Equal(t, 10, catalog[0].Quantity)
	assert.Equal(t, domain.StatusInStock, catalog[0].Status)
}

// TestConcurrentSellAndSnapshot hammers the ledger from a writer and a
// reader goroutine. Snapshots must never show a half-applied sale: a zero
// quantity always comes with out-of-stock status, and quantity plus the
// recorded sales always equals the initial stock.
func TestConcurrentSellAndSnapshot(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	const initial = 200
	_, err := ledger.AddOrRestock(ctx, "Widget", "SKU-001", initial, 100, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < initial; i++ {
			if _, err := ledger.Sell(ctx, "SKU-001", 1, 150); err != nil {
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}

			catalog, sales, err := ledger.Snapshot(ctx)
			if err != nil || len(catalog) == 0 {
				continue
			}
			p := catalog[0]
			if p.Quantity < 0 {
				t.Error("observed negative quantity")
				return
			}
			if p.Quantity == 0 && p.Status != domain.StatusOutOfStock {
				t.Error("observed zero quantity without out-of-stock status")
				return
			}
			if p.Quantity+len(sales) != initial {
				t.Errorf("torn snapshot: quantity %d with %d sales", p.Quantity, len(sales))
				return
			}
			time.Sleep(time.Microsecond)
		}
	}()

	// Writer finishes first, then the reader gets a moment on the final state.
	wgWait := make(chan struct{})
	go func() { wg.Wait(); close(wgWait) }()
	time.Sleep(50 * time.Millisecond)
	close(stop)
	<-wgWait

	product, err := ledger.Get(ctx, "SKU-001")
	require.NoError(t, err)
	assert.Zero(t, product.Quantity)
	assert.Equal(t, domain.StatusOutOfStock, product.Status)
}
