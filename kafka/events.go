package kafka

import "time"

// SaleRecordedEvent is published after a sale is appended to the ledger
type SaleRecordedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	SalePrice float64   `json:"sale_price"`
	Revenue   float64   `json:"revenue"`
	Profit    float64   `json:"profit"`
	Timestamp time.Time `json:"timestamp"`
}

// StockDepletedEvent is published when a sale or write-off empties a SKU
type StockDepletedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleRecorded  = "ledger.sale_recorded"
	EventTypeStockDepleted = "ledger.stock_depleted"
)

// Kafka topics
const (
	TopicSaleRecorded  = "ledger-sale-recorded"
	TopicStockDepleted = "ledger-stock-depleted"
)
