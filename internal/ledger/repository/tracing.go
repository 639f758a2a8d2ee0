package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

var tracer = otel.Tracer("ledger-repository")

// TracingLedger wraps a LedgerRepository with OpenTelemetry spans.
type TracingLedger struct {
	next domain.LedgerRepository
}

// NewTracingLedger creates a tracing decorator around next.
func NewTracingLedger(next domain.LedgerRepository) *TracingLedger {
	return &TracingLedger{next: next}
}

func (t *TracingLedger) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *TracingLedger) AddOrRestock(ctx context.Context, name, sku string, quantity int, price float64, expiry string) (*domain.Product, error) {
	ctx, span := t.span(ctx, "ledger.AddOrRestock",
		attribute.String("product.sku", sku),
		attribute.String("product.name", name),
		attribute.Int("product.quantity", quantity),
		attribute.Float64("product.price", price),
	)
	product, err := t.next.AddOrRestock(ctx, name, sku, quantity, price, expiry)
	if err == nil {
		span.SetAttributes(attribute.String("product.category", product.Category))
	}
	finish(span, err)
	return product, err
}

func (t *TracingLedger) Get(ctx context.Context, sku string) (*domain.Product, error) {
	ctx, span := t.span(ctx, "ledger.Get", attribute.String("product.sku", sku))
	product, err := t.next.Get(ctx, sku)
	finish(span, err)
	return product, err
}

func (t *TracingLedger) UpdateField(ctx context.Context, sku, field, value string) (*domain.FieldChange, error) {
	ctx, span := t.span(ctx, "ledger.UpdateField",
		attribute.String("product.sku", sku),
		attribute.String("product.field", field),
	)
	change, err := t.next.UpdateField(ctx, sku, field, value)
	finish(span, err)
	return change, err
}

func (t *TracingLedger) Consume(ctx context.Context, sku string, quantity int) (int, error) {
	ctx, span := t.span(ctx, "ledger.Consume",
		attribute.String("product.sku", sku),
		attribute.Int("consume.quantity", quantity),
	)
	remaining, err := t.next.Consume(ctx, sku, quantity)
	if err == nil {
		span.SetAttributes(attribute.Int("product.remaining", remaining))
	}
	finish(span, err)
	return remaining, err
}

func (t *TracingLedger) SetStatus(ctx context.Context, sku string, status domain.Status) (*domain.FieldChange, error) {
	ctx, span := t.span(ctx, "ledger.SetStatus",
		attribute.String("product.sku", sku),
		attribute.String("product.status", string(status)),
	)
	change, err := t.next.SetStatus(ctx, sku, status)
	finish(span, err)
	return change, err
}

func (t *TracingLedger) AssignManager(ctx context.Context, sku, manager string) (*domain.FieldChange, error) {
	ctx, span := t.span(ctx, "ledger.AssignManager",
		attribute.String("product.sku", sku),
		attribute.String("product.manager", manager),
	)
	change, err := t.next.AssignManager(ctx, sku, manager)
	finish(span, err)
	return change, err
}

func (t *TracingLedger) Sell(ctx context.Context, sku string, quantity int, salePrice float64) (*domain.SaleEvent, error) {
	ctx, span := t.span(ctx, "ledger.Sell",
		attribute.String("product.sku", sku),
		attribute.Int("sale.quantity", quantity),
		attribute.Float64("sale.price", salePrice),
	)
	sale, err := t.next.Sell(ctx, sku, quantity, salePrice)
	if err == nil {
		span.SetAttributes(
			attribute.Float64("sale.revenue", sale.Revenue),
			attribute.Float64("sale.profit", sale.Profit),
		)
	}
	finish(span, err)
	return sale, err
}

func (t *TracingLedger) Snapshot(ctx context.Context) ([]domain.Product, []domain.SaleEvent, error) {
	ctx, span := t.span(ctx, "ledger.Snapshot")
	catalog, sales, err := t.next.Snapshot(ctx)
	if err == nil {
		span.SetAttributes(
			attribute.Int("snapshot.products", len(catalog)),
			attribute.Int("snapshot.sales", len(sales)),
		)
	}
	finish(span, err)
	return catalog, sales, err
}

func (t *TracingLedger) Count(ctx context.Context) (int, error) {
	ctx, span := t.span(ctx, "ledger.Count")
	n, err := t.next.Count(ctx)
	finish(span, err)
	return n, err
}
