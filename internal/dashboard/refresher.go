// Package dashboard implements the fixed-interval read cycle: snapshot the
// ledger, aggregate the copy, publish the result to presentation consumers.
// The refresh cadence is deliberately timer-driven rather than
// mutation-driven, bounding staleness to one interval without coupling the
// reader to writer activity.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dkaz/retail-ledger/internal/analytics"
	"github.com/dkaz/retail-ledger/internal/ledger/domain"
	"github.com/dkaz/retail-ledger/pkg/logger"
)

// DefaultInterval matches the source dashboard's 5 second refresh.
const DefaultInterval = 5 * time.Second

var (
	productsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_products_total",
		Help: "Number of catalog entries at the last refresh",
	})
	inventoryValueGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_inventory_value",
		Help: "Total on-hand inventory value at the last refresh",
	})
	lowStockGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_low_stock_products",
		Help: "Products below the low-stock threshold at the last refresh",
	})
	outOfStockGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_out_of_stock_products",
		Help: "Products with out-of-stock status at the last refresh",
	})
	salesRevenueGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_sales_revenue_total",
		Help: "Cumulative sale revenue at the last refresh",
	})
	salesProfitGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_sales_profit_total",
		Help: "Cumulative realized profit at the last refresh",
	})
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_refresh_duration_seconds",
		Help:    "Duration of one snapshot and aggregation cycle",
		Buckets: prometheus.DefBuckets,
	})
)

// Refresher drives the periodic snapshot + aggregation cycle.
type Refresher struct {
	repo     domain.LedgerRepository
	interval time.Duration

	mu      sync.RWMutex
	latest  *analytics.Overview
	updates chan *analytics.Overview
}

// NewRefresher creates a refresher reading from repo every interval.
// A non-positive interval falls back to DefaultInterval.
func NewRefresher(repo domain.LedgerRepository, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		repo:     repo,
		interval: interval,
		updates:  make(chan *analytics.Overview, 1),
	}
}

// Run refreshes once immediately, then on every tick until ctx is
// cancelled.
func (r *Refresher) Run(ctx context.Context) {
	logger.Logger.Info().
		Dur("interval", r.interval).
		Msg("Dashboard refresher started")

	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info().Msg("Dashboard refresher stopped")
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh executes one read cycle. The snapshot is the only step that
// touches the ledger's exclusion; aggregation runs on the copy.
func (r *Refresher) Refresh(ctx context.Context) {
	start := time.Now()

	catalog, sales, err := r.repo.Snapshot(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to snapshot ledger")
		return
	}

	overview := analytics.BuildOverview(catalog, sales, time.Now())

	r.mu.Lock()
	r.latest = overview
	r.mu.Unlock()

	// Drop the update when the subscriber lags; the next tick supersedes it.
	select {
	case r.updates <- overview:
	default:
	}

	productsGauge.Set(float64(overview.KPIs.TotalProducts))
	inventoryValueGauge.Set(overview.KPIs.TotalValue)
	lowStockGauge.Set(float64(overview.KPIs.LowStock))
	outOfStockGauge.Set(float64(overview.KPIs.OutOfStock))
	salesRevenueGauge.Set(overview.Sales.Revenue)
	salesProfitGauge.Set(overview.Sales.Profit)
	refreshDuration.Observe(time.Since(start).Seconds())

	logger.Debug(ctx).
		Int("products", overview.KPIs.TotalProducts).
		Float64("total_value", overview.KPIs.TotalValue).
		Dur("duration", time.Since(start)).
		Msg("Dashboard refreshed")
}

// Latest returns the most recent overview, or nil before the first cycle.
func (r *Refresher) Latest() *analytics.Overview {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Updates exposes the refresh stream. The channel holds at most one
// pending overview; slow consumers only ever see the freshest state.
func (r *Refresher) Updates() <-chan *analytics.Overview {
	return r.updates
}
