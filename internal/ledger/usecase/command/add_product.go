package command

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// AddProductCommand represents the command to add or restock a product
type AddProductCommand struct {
	Name     string
	SKU      string
	Quantity int
	Price    float64
	Expiry   string
}

// AddProductHandler handles product add/restock commands
type AddProductHandler struct {
	repo domain.LedgerRepository
}

// NewAddProductHandler creates a new add product handler
func NewAddProductHandler(repo domain.LedgerRepository) *AddProductHandler {
	return &AddProductHandler{repo: repo}
}

// Handle executes the add product command
func (h *AddProductHandler) Handle(ctx context.Context, cmd AddProductCommand) (*domain.Product, error) {
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}
	if cmd.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}

	product, err := h.repo.AddOrRestock(ctx, cmd.Name, cmd.SKU, cmd.Quantity, cmd.Price, cmd.Expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}
	return product, nil
}
