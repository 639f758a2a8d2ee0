package query

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// GetProductQuery represents the query to fetch one product
type GetProductQuery struct {
	SKU string
}

// GetProductHandler handles get product queries
type GetProductHandler struct {
	repo domain.LedgerRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.LedgerRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*domain.Product, error) {
	if q.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}

	product, err := h.repo.Get(ctx, q.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
