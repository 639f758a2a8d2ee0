package query

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// ListProductsQuery represents the query to list catalog entries
type ListProductsQuery struct {
	Limit  int
	Offset int
}

// ListProductsResult carries one page of the catalog
type ListProductsResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// ListProductsHandler handles list products queries
type ListProductsHandler struct {
	repo domain.LedgerRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.LedgerRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query against one snapshot, so the
// page and the total are consistent with each other.
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) (*ListProductsResult, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	catalog, _, err := h.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	total := len(catalog)
	if q.Offset > total {
		q.Offset = total
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}

	return &ListProductsResult{
		Products: catalog[q.Offset:end],
		Total:    total,
	}, nil
}
