// Package analytics turns ledger snapshots and imported financial records
// into KPI, distribution, ranking and time-series aggregates. Every
// function is pure: inputs are never mutated and empty inputs produce
// zero-valued results.
package analytics

import (
	"sort"
	"time"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// LowStockThreshold is the quantity below which a product counts as low stock.
const LowStockThreshold = 5

// NearExpiryWindow is how far ahead a product counts as near expiry.
const NearExpiryWindow = 30 * 24 * time.Hour

// KPIs are the summary indicators of one catalog snapshot.
type KPIs struct {
	TotalProducts int     `json:"total_products"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	LowStock      int     `json:"low_stock"`
	NearExpiry    int     `json:"near_expiry"`
	OutOfStock    int     `json:"out_of_stock"`
}

// ComputeKPIs derives the KPI card values from a catalog snapshot.
// Products with a missing or unparsable expiry are skipped by the
// near-expiry count only.
func ComputeKPIs(catalog []domain.Product, now time.Time) KPIs {
	var k KPIs
	k.TotalProducts = len(catalog)
	for i := range catalog {
		p := &catalog[i]
		k.TotalQuantity += p.Quantity
		k.TotalValue += p.Value()
		if p.Quantity < LowStockThreshold {
			k.LowStock++
		}
		if p.Status == domain.StatusOutOfStock {
			k.OutOfStock++
		}
		if expiry, ok := p.ExpiryDate(); ok {
			left := expiry.Sub(now)
			if left >= 0 && left <= NearExpiryWindow {
				k.NearExpiry++
			}
		}
	}
	return k
}

// Group is one bucket of a categorical distribution.
type Group struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// ByCategory keys a product by its derived category.
func ByCategory(p *domain.Product) string { return p.Category }

// ByStatus keys a product by its lifecycle status.
func ByStatus(p *domain.Product) string { return string(p.Status) }

// ByManager keys a product by its responsible manager.
func ByManager(p *domain.Product) string { return p.Manager }

// ComputeDistribution groups the catalog by keyFn, summing counts and
// on-hand value per group. Groups appear in first-occurrence order.
func ComputeDistribution(catalog []domain.Product, keyFn func(*domain.Product) string) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for i := range catalog {
		p := &catalog[i]
		key := keyFn(p)
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Count++
		groups[gi].Value += p.Value()
	}
	return groups
}

// ByQuantity ranks a product by on-hand quantity.
func ByQuantity(p *domain.Product) float64 { return float64(p.Quantity) }

// ByValue ranks a product by on-hand value.
func ByValue(p *domain.Product) float64 { return p.Value() }

// ComputeTopN returns the n highest-ranked products by keyFn. The sort is
// stable so ties keep the catalog's insertion order.
func ComputeTopN(catalog []domain.Product, n int, keyFn func(*domain.Product) float64) []domain.Product {
	ranked := make([]domain.Product, len(catalog))
	copy(ranked, catalog)
	sort.SliceStable(ranked, func(i, j int) bool {
		return keyFn(&ranked[i]) > keyFn(&ranked[j])
	})
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
