package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"park-price-tiers/internal/tiers"
)

// Snapshot is an immutable, timestamped capture of one raw source response.
type Snapshot struct {
	Timestamp   time.Time       `json:"timestamp"`
	ProductType string          `json:"product_type"`
	Data        json.RawMessage `json:"data"`
}

// TrendPoint is one snapshot's view of a single calendar date's pricing.
type TrendPoint struct {
	Timestamp   time.Time
	PriceAdult  *decimal.Decimal
	PriceChild  *decimal.Decimal
	SourceRange string
}

// AlertRecord captures an emitted price alert for auditing.
type AlertRecord struct {
	ID          int64
	ProductType string
	Date        time.Time
	Kind        string
	Message     string
	Price       *decimal.Decimal
	Tier        *string
	CreatedAt   time.Time
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func boolString(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "true"
	}
	return "false"
}

func tierString(t *tiers.PriceTier) string {
	if t == nil {
		return ""
	}
	return t.String()
}
