package command

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// AssignManagerCommand represents the command to assign a responsible manager
type AssignManagerCommand struct {
	SKU     string
	Manager string
}

// AssignManagerHandler handles manager assignment commands
type AssignManagerHandler struct {
	repo domain.LedgerRepository
}

// NewAssignManagerHandler creates a new assign manager handler
func NewAssignManagerHandler(repo domain.LedgerRepository) *AssignManagerHandler {
	return &AssignManagerHandler{repo: repo}
}

// Handle executes the assign manager command
func (h *AssignManagerHandler) Handle(ctx context.Context, cmd AssignManagerCommand) (*domain.FieldChange, error) {
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}

	change, err := h.repo.AssignManager(ctx, cmd.SKU, cmd.Manager)
	if err != nil {
		return nil, fmt.Errorf("failed to assign manager: %w", err)
	}
	return change, nil
}
