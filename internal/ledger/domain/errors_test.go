package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid quantity: must be a non-negative integer",
		(&ValidationError{Field: "quantity", Reason: "must be a non-negative integer"}).Error())
	assert.Equal(t, "product SKU-404 not found",
		(&NotFoundError{SKU: "SKU-404"}).Error())
	assert.Equal(t, "insufficient stock for SKU-001: available 2, requested 5",
		(&InsufficientStockError{SKU: "SKU-001", Available: 2, Requested: 5}).Error())
}

// Wrapped errors must stay matchable so delivery can map them to statuses.
func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to sell product: %w",
		&InsufficientStockError{SKU: "SKU-001", Available: 2, Requested: 5})

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(wrapped, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
}
