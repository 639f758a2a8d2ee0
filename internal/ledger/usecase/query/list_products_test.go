package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
	"github.com/dkaz/retail-ledger/internal/ledger/repository"
)

func seedLedger(t *testing.T, n int) *repository.MemoryLedger {
	t.Helper()
	ledger := repository.NewMemoryLedger()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		sku := fmt.Sprintf("SKU-%03d", i)
		_, err := ledger.AddOrRestock(ctx, "Widget "+sku, sku, i, float64(i*10), "")
		require.NoError(t, err)
	}
	return ledger
}

func TestListProductsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("pages in insertion order", func(t *testing.T) {
		handler := NewListProductsHandler(seedLedger(t, 5))

		result, err := handler.Handle(ctx, ListProductsQuery{Limit: 2, Offset: 0})
		require.NoError(t, err)
		assert.Equal(t, 5, result.Total)
		require.Len(t, result.Products, 2)
		assert.Equal(t, "SKU-001", result.Products[0].SKU)
		assert.Equal(t, "SKU-002", result.Products[1].SKU)

		result, err = handler.Handle(ctx, ListProductsQuery{Limit: 2, Offset: 4})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "SKU-005", result.Products[0].SKU)
	})

	t.Run("defaults and out-of-range offsets", func(t *testing.T) {
		handler := NewListProductsHandler(seedLedger(t, 3))

		result, err := handler.Handle(ctx, ListProductsQuery{})
		require.NoError(t, err)
		assert.Len(t, result.Products, 3)

		result, err = handler.Handle(ctx, ListProductsQuery{Limit: 10, Offset: 100})
		require.NoError(t, err)
		assert.Empty(t, result.Products)
		assert.Equal(t, 3, result.Total)

		result, err = handler.Handle(ctx, ListProductsQuery{Limit: -1, Offset: -1})
		require.NoError(t, err)
		assert.Len(t, result.Products, 3)
	})
}

func TestGetProductHandler(t *testing.T) {
	ctx := context.Background()
	handler := NewGetProductHandler(seedLedger(t, 1))

	product, err := handler.Handle(ctx, GetProductQuery{SKU: "SKU-001"})
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", product.SKU)

	_, err = handler.Handle(ctx, GetProductQuery{SKU: "SKU-404"})
	var notFoundErr *domain.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	_, err = handler.Handle(ctx, GetProductQuery{})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestGetStatsHandler(t *testing.T) {
	ctx := context.Background()
	ledger := seedLedger(t, 2)
	_, err := ledger.Sell(ctx, "SKU-002", 1, 50)
	require.NoError(t, err)

	handler := NewGetStatsHandler(ledger)

	overview, err := handler.Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, overview.KPIs.TotalProducts)
	assert.Equal(t, 50.0, overview.Sales.Revenue)
	assert.False(t, overview.GeneratedAt.IsZero())
}
