package command

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// ConsumeStockCommand represents the command to write off stock
type ConsumeStockCommand struct {
	SKU      string
	Quantity int
}

// ConsumeStockResult reports the outcome of a write-off
type ConsumeStockResult struct {
	SKU       string `json:"sku"`
	Consumed  int    `json:"consumed"`
	Remaining int    `json:"remaining"`
	Depleted  bool   `json:"depleted"`
}

// ConsumeStockHandler handles stock write-off commands
type ConsumeStockHandler struct {
	repo domain.LedgerRepository
}

// NewConsumeStockHandler creates a new consume stock handler
func NewConsumeStockHandler(repo domain.LedgerRepository) *ConsumeStockHandler {
	return &ConsumeStockHandler{repo: repo}
}

// Handle executes the consume stock command
func (h *ConsumeStockHandler) Handle(ctx context.Context, cmd ConsumeStockCommand) (*ConsumeStockResult, error) {
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}

	remaining, err := h.repo.Consume(ctx, cmd.SKU, cmd.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to consume stock: %w", err)
	}

	return &ConsumeStockResult{
		SKU:       cmd.SKU,
		Consumed:  cmd.Quantity,
		Remaining: remaining,
		Depleted:  remaining == 0,
	}, nil
}
