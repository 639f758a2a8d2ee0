package analytics

import (
	"time"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// TopSize is how many products the overview rankings carry.
const TopSize = 5

// Overview is the full aggregate view recomputed on every read cycle and
// handed to the presentation side.
type Overview struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	KPIs          KPIs             `json:"kpis"`
	Categories    []Group          `json:"categories"`
	TopByQuantity []domain.Product `json:"top_by_quantity"`
	TopByValue    []domain.Product `json:"top_by_value"`
	Sales         Totals           `json:"sales"`
	SalesSeries   []Bucket         `json:"sales_series"`
	RevenueGrowth float64          `json:"revenue_growth"`
}

// BuildOverview aggregates one ledger snapshot. It runs entirely on the
// copied snapshot, never on live ledger state.
func BuildOverview(catalog []domain.Product, sales []domain.SaleEvent, now time.Time) *Overview {
	records := RecordsFromSales(sales)
	series := ComputeTimeSeries(records, PeriodMonth)

	return &Overview{
		GeneratedAt:   now,
		KPIs:          ComputeKPIs(catalog, now),
		Categories:    ComputeDistribution(catalog, ByCategory),
		TopByQuantity: ComputeTopN(catalog, TopSize, ByQuantity),
		TopByValue:    ComputeTopN(catalog, TopSize, ByValue),
		Sales:         Summarize(records),
		SalesSeries:   series,
		RevenueGrowth: ComputeGrowth(series, MetricRevenue),
	}
}
