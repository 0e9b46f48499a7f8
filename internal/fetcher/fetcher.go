package fetcher

import (
	"context"
	"encoding/json"
	"time"

	"park-price-tiers/internal/pricing"
)

// PriceFetcher retrieves the ticket pricing calendar for a date span and a
// set of product types. Implementations own retry/timeout behaviour; callers
// see a hard failure only after attempts are exhausted.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, start, end time.Time, productTypes []string) (pricing.Calendar, json.RawMessage, error)
}
