package command

import (
	"context"
	"fmt"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
	"github.com/dkaz/retail-ledger/kafka"
	"github.com/dkaz/retail-ledger/pkg/logger"
)

// EventPublisher pushes ledger events to downstream consumers.
type EventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event kafka.SaleRecordedEvent) error
	PublishStockDepleted(ctx context.Context, event kafka.StockDepletedEvent) error
}

// SellProductCommand represents the command to register a sale
type SellProductCommand struct {
	SKU       string
	Quantity  int
	SalePrice float64
}

// SellProductHandler handles sale commands
type SellProductHandler struct {
	repo      domain.LedgerRepository
	publisher EventPublisher
}

// NewSellProductHandler creates a new sell product handler. publisher may
// be nil when no broker is configured.
func NewSellProductHandler(repo domain.LedgerRepository, publisher EventPublisher) *SellProductHandler {
	return &SellProductHandler{repo: repo, publisher: publisher}
}

// Handle executes the sell command. Event publishing happens after the
// mutation completes, never inside the ledger's critical section, and a
// publish failure does not undo the recorded sale.
func (h *SellProductHandler) Handle(ctx context.Context, cmd SellProductCommand) (*domain.SaleEvent, error) {
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}

	sale, err := h.repo.Sell(ctx, cmd.SKU, cmd.Quantity, cmd.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("failed to sell product: %w", err)
	}

	if h.publisher != nil {
		h.notify(ctx, sale)
	}
	return sale, nil
}

func (h *SellProductHandler) notify(ctx context.Context, sale *domain.SaleEvent) {
	err := h.publisher.PublishSaleRecorded(ctx, kafka.SaleRecordedEvent{
		EventID:   sale.ID,
		SKU:       sale.SKU,
		Name:      sale.Name,
		Quantity:  sale.Quantity,
		SalePrice: sale.SalePrice,
		Revenue:   sale.Revenue,
		Profit:    sale.Profit,
		Timestamp: sale.SoldAt,
	})
	if err != nil {
		logger.Logger.Warn().Err(err).Str("sku", sale.SKU).Msg("Failed to publish sale event")
	}

	product, err := h.repo.Get(ctx, sale.SKU)
	if err != nil || product.Quantity > 0 {
		return
	}
	err = h.publisher.PublishStockDepleted(ctx, kafka.StockDepletedEvent{
		SKU:       sale.SKU,
		Name:      sale.Name,
		Timestamp: sale.SoldAt,
	})
	if err != nil {
		logger.Logger.Warn().Err(err).Str("sku", sale.SKU).Msg("Failed to publish stock depleted event")
	}
}
