package query

import (
	"context"
	"fmt"
	"time"

	"github.com/dkaz/retail-ledger/internal/analytics"
	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// GetStatsQuery represents the query to get inventory statistics
type GetStatsQuery struct{}

// GetStatsHandler handles get stats queries
type GetStatsHandler struct {
	repo domain.LedgerRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.LedgerRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle takes one snapshot and aggregates it outside the ledger's
// critical section.
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*analytics.Overview, error) {
	catalog, sales, err := h.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}
	return analytics.BuildOverview(catalog, sales, time.Now()), nil
}
