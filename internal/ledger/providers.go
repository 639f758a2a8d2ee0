package ledger

import (
	"github.com/google/wire"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
	"github.com/dkaz/retail-ledger/internal/ledger/repository"
)

// ProvideLedgerRepository provides the in-memory ledger wrapped with tracing
func ProvideLedgerRepository() domain.LedgerRepository {
	return repository.NewTracingLedger(repository.NewMemoryLedger())
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideLedgerRepository,
)
