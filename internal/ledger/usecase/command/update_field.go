package command

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// UpdateFieldCommand represents the command to update a single product field
type UpdateFieldCommand struct {
	SKU   string
	Field string
	Value string
}

// UpdateFieldHandler handles field update commands
type UpdateFieldHandler struct {
	repo domain.LedgerRepository
}

// NewUpdateFieldHandler creates a new update field handler
func NewUpdateFieldHandler(repo domain.LedgerRepository) *UpdateFieldHandler {
	return &UpdateFieldHandler{repo: repo}
}

// Handle executes the update field command
func (h *UpdateFieldHandler) Handle(ctx context.Context, cmd UpdateFieldCommand) (*domain.FieldChange, error) {
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}
	if cmd.Field == "" {
		return nil, &domain.ValidationError{Field: "field", Reason: "is required"}
	}

	change, err := h.repo.UpdateField(ctx, cmd.SKU, cmd.Field, cmd.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to update field: %w", err)
	}
	return change, nil
}
