package port

import (
	"context"

	"holdings_checker/internal/domain/entity"
)

// HoldingsService defines the core contract for resolving a wallet's current
// holdings, valued in US dollars.
type HoldingsService interface {
	// ResolveHoldings produces the deduplicated, priced, labeled holdings list
	// for one address. Only ledger unavailability and invalid input fail the
	// call; every enrichment step degrades to missing optional fields.
	ResolveHoldings(ctx context.Context, address string, includeNonFungible bool) (*entity.HoldingsResult, error)
}
