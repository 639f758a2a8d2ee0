package command

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// SetStatusCommand represents the command to change a product's lifecycle status
type SetStatusCommand struct {
	SKU    string
	Status string
}

// SetStatusHandler handles status change commands
type SetStatusHandler struct {
	repo domain.LedgerRepository
}

// NewSetStatusHandler creates a new set status handler
func NewSetStatusHandler(repo domain.LedgerRepository) *SetStatusHandler {
	return &SetStatusHandler{repo: repo}
}

// Handle executes the set status command
func (h *SetStatusHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*domain.FieldChange, error) {
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}

	change, err := h.repo.SetStatus(ctx, cmd.SKU, domain.Status(cmd.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to set status: %w", err)
	}
	return change, nil
}
