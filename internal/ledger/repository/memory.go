package repository

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// updatableFields are the fields UpdateField may set. Status and manager
// mutations must go through SetStatus/AssignManager so their validation
// cannot be bypassed.
var updatableFields = map[string]bool{
	"name":     true,
	"quantity": true,
	"price":    true,
	"expiry":   true,
}

// MemoryLedger owns the product catalog and the append-only sale log.
//
// A single mutex serializes every mutation and snapshot: mutation volume
// is low (one chat command at a time) so ledger-wide exclusion is enough.
// No I/O happens while the lock is held.
type MemoryLedger struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	order    []string
	sales    []domain.SaleEvent

	now   func() time.Time
	newID func() string
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		products: make(map[string]*domain.Product),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (l *MemoryLedger) AddOrRestock(ctx context.Context, name, sku string, quantity int, price float64, expiry string) (*domain.Product, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}
	if strings.TrimSpace(name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a non-negative integer"}
	}
	if price < 0 {
		return nil, &domain.ValidationError{Field: "price", Reason: "must be a non-negative number"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.products[sku]; ok {
		// Restock: only the quantity grows, first-write wins for the rest.
		existing.Quantity += quantity
		p := *existing
		return &p, nil
	}

	product := &domain.Product{
		SKU:       sku,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		Expiry:    expiry,
		Status:    domain.StatusInStock,
		Manager:   domain.DefaultManager,
		Category:  domain.Categorize(name),
		CreatedAt: l.now(),
	}
	l.products[sku] = product
	l.order = append(l.order, sku)

	p := *product
	return &p, nil
}

func (l *MemoryLedger) Get(ctx context.Context, sku string) (*domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products[sku]
	if !ok {
		return nil, &domain.NotFoundError{SKU: sku}
	}
	p := *product
	return &p, nil
}

func (l *MemoryLedger) UpdateField(ctx context.Context, sku, field, value string) (*domain.FieldChange, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	if !updatableFields[field] {
		return nil, &domain.ValidationError{Field: "field", Reason: "must be one of name, quantity, price, expiry"}
	}

	// Coerce numeric fields before taking the lock so a failed parse
	// performs no mutation.
	var (
		newQuantity int
		newPrice    float64
		err         error
	)
	switch field {
	case "quantity":
		newQuantity, err = strconv.Atoi(value)
		if err != nil || newQuantity < 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a non-negative integer"}
		}
	case "price":
		newPrice, err = strconv.ParseFloat(value, 64)
		if err != nil || newPrice < 0 {
			return nil, &domain.ValidationError{Field: "price", Reason: "must be a non-negative number"}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products[sku]
	if !ok {
		return nil, &domain.NotFoundError{SKU: sku}
	}

	change := &domain.FieldChange{Field: field}
	switch field {
	case "name":
		change.Old, change.New = product.Name, value
		product.Name = value
	case "quantity":
		change.Old, change.New = product.Quantity, newQuantity
		product.Quantity = newQuantity
	case "price":
		change.Old, change.New = product.Price, newPrice
		product.Price = newPrice
	case "expiry":
		change.Old, change.New = product.Expiry, value
		product.Expiry = value
	}
	return change, nil
}

func (l *MemoryLedger) Consume(ctx context.Context, sku string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products[sku]
	if !ok {
		return 0, &domain.NotFoundError{SKU: sku}
	}
	if quantity > product.Quantity {
		return 0, &domain.InsufficientStockError{SKU: sku, Available: product.Quantity, Requested: quantity}
	}

	product.Quantity -= quantity
	if product.Quantity == 0 {
		product.Status = domain.StatusOutOfStock
	}
	return product.Quantity, nil
}

func (l *MemoryLedger) SetStatus(ctx context.Context, sku string, status domain.Status) (*domain.FieldChange, error) {
	if !status.IsValid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "must be one of the enumerated statuses"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products[sku]
	if !ok {
		return nil, &domain.NotFoundError{SKU: sku}
	}

	change := &domain.FieldChange{Field: "status", Old: product.Status, New: status}
	product.Status = status
	return change, nil
}

func (l *MemoryLedger) AssignManager(ctx context.Context, sku, manager string) (*domain.FieldChange, error) {
	if strings.TrimSpace(manager) == "" {
		return nil, &domain.ValidationError{Field: "manager", Reason: "is required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products[sku]
	if !ok {
		return nil, &domain.NotFoundError{SKU: sku}
	}

	change := &domain.FieldChange{Field: "manager", Old: product.Manager, New: manager}
	product.Manager = manager
	return change, nil
}

func (l *MemoryLedger) Sell(ctx context.Context, sku string, quantity int, salePrice float64) (*domain.SaleEvent, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if salePrice < 0 {
		return nil, &domain.ValidationError{Field: "sale_price", Reason: "must be a non-negative number"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products[sku]
	if !ok {
		return nil, &domain.NotFoundError{SKU: sku}
	}
	if quantity > product.Quantity {
		return nil, &domain.InsufficientStockError{SKU: sku, Available: product.Quantity, Requested: quantity}
	}

	// Decrement, status flip and sale append happen under one lock so a
	// snapshot can never observe the mutation half applied.
	product.Quantity -= quantity
	if product.Quantity == 0 {
		product.Status = domain.StatusOutOfStock
	}

	revenue := float64(quantity) * salePrice
	sale := domain.SaleEvent{
		ID:        l.newID(),
		SKU:       sku,
		Name:      product.Name,
		Quantity:  quantity,
		SalePrice: salePrice,
		Revenue:   revenue,
		Profit:    revenue - float64(quantity)*product.Price,
		SoldAt:    l.now(),
	}
	l.sales = append(l.sales, sale)

	s := sale
	return &s, nil
}

func (l *MemoryLedger) Snapshot(ctx context.Context) ([]domain.Product, []domain.SaleEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	catalog := make([]domain.Product, 0, len(l.order))
	for _, sku := range l.order {
		catalog = append(catalog, *l.products[sku])
	}
	sales := make([]domain.SaleEvent, len(l.sales))
	copy(sales, l.sales)

	return catalog, sales, nil
}

func (l *MemoryLedger) Count(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.products), nil
}
