//go:build wireinject
// +build wireinject

package ledger

import (
	"time"

	"github.com/google/wire"

	"github.com/dkaz/retail-ledger/internal/dashboard"
	httpDelivery "github.com/dkaz/retail-ledger/internal/ledger/delivery/http"
	"github.com/dkaz/retail-ledger/internal/ledger/usecase/command"
)

// InitializeService initializes the HTTP handler and the dashboard
// refresher over one shared ledger.
func InitializeService(publisher command.EventPublisher, refreshInterval time.Duration) (*httpDelivery.LedgerHandler, *dashboard.Refresher, error) {
	wire.Build(
		RepositorySet,
		dashboard.NewRefresher,
		httpDelivery.NewLedgerHandler,
	)
	return nil, nil, nil
}
