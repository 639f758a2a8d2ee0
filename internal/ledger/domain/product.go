package domain

import (
	"context"
	"time"
)

// Status is the lifecycle state of a catalog product.
type Status string

const (
	StatusInStock     Status = "in_stock"
	StatusOutOfStock  Status = "out_of_stock"
	StatusReserved    Status = "reserved"
	StatusWrittenOff  Status = "written_off"
	StatusUnderReview Status = "under_review"
)

// ValidStatuses lists every accepted lifecycle status.
var ValidStatuses = []Status{
	StatusInStock,
	StatusOutOfStock,
	StatusReserved,
	StatusWrittenOff,
	StatusUnderReview,
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultManager is assigned to products created without a responsible manager.
const DefaultManager = "unassigned"

// Product represents a catalog entry keyed by SKU.
type Product struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Expiry    string    `json:"expiry,omitempty"`
	Status    Status    `json:"status"`
	Manager   string    `json:"manager"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Value returns the on-hand value of the product (quantity x unit price).
func (p *Product) Value() float64 {
	return float64(p.Quantity) * p.Price
}

// ExpiryDate parses the expiry field. ok is false when the field is empty
// or not a calendar date; callers skip such records instead of failing.
func (p *Product) ExpiryDate() (time.Time, bool) {
	if p.Expiry == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", p.Expiry)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SaleEvent is an immutable record appended when a sale succeeds.
type SaleEvent struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	SalePrice float64   `json:"sale_price"`
	Revenue   float64   `json:"revenue"`
	Profit    float64   `json:"profit"`
	SoldAt    time.Time `json:"sold_at"`
}

// FieldChange reports the before/after values of a single-field mutation.
type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// LedgerRepository is the contract for the shared inventory ledger.
//
// Every mutation is atomic with respect to all others and to Snapshot:
// a snapshot never observes a partially applied mutation, and failed
// operations leave the ledger untouched.
type LedgerRepository interface {
	// AddOrRestock creates a product, or increases quantity when the SKU
	// already exists. On restock the name, price and expiry keep their
	// first-write values.
	AddOrRestock(ctx context.Context, name, sku string, quantity int, price float64, expiry string) (*Product, error)

	// Get returns the product for sku.
	Get(ctx context.Context, sku string) (*Product, error)

	// UpdateField sets one of the free-text/numeric fields (name, quantity,
	// price, expiry) from its string form. Status and manager changes go
	// through their dedicated operations only.
	UpdateField(ctx context.Context, sku, field, value string) (*FieldChange, error)

	// Consume writes off quantity units and returns the remaining stock.
	Consume(ctx context.Context, sku string, quantity int) (int, error)

	// SetStatus changes the lifecycle status.
	SetStatus(ctx context.Context, sku string, status Status) (*FieldChange, error)

	// AssignManager changes the responsible manager.
	AssignManager(ctx context.Context, sku, manager string) (*FieldChange, error)

	// Sell decrements stock, records and returns the sale event.
	Sell(ctx context.Context, sku string, quantity int, salePrice float64) (*SaleEvent, error)

	// Snapshot returns point-in-time copies of the catalog (in insertion
	// order) and the sale log, safe for read-only use.
	Snapshot(ctx context.Context) ([]Product, []SaleEvent, error)

	// Count returns the number of catalog entries.
	Count(ctx context.Context) (int, error)
}
