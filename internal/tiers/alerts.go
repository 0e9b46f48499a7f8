package tiers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind distinguishes the two anomaly classes.
type AlertKind string

const (
	AlertPriceSpike AlertKind = "price_spike"
	AlertTierChange AlertKind = "tier_change"
)

// DefaultAlertThresholdPct is the day-over-day change that triggers a
// price_spike alert when no threshold is configured.
var DefaultAlertThresholdPct = decimal.NewFromInt(20)

var oneHundred = decimal.NewFromInt(100)

// PriceAlert is one detected anomaly in a mapped day sequence. Purely
// informational output; persistence is up to the caller.
type PriceAlert struct {
	Date    time.Time
	Kind    AlertKind
	Message string
	Price   *decimal.Decimal
	Tier    *PriceTier
}

// DetectAlerts scans a date-ascending record sequence for day-over-day price
// spikes and tier transitions. A price_spike fires when the absolute percent
// change is at or above thresholdPct; a tier_change fires when the assigned
// tier label differs from the previous day's (absence is distinct from any
// named tier). The first record never alerts. A day may emit both kinds.
func DetectAlerts(records []DayRecord, thresholdPct decimal.Decimal) []PriceAlert {
	if thresholdPct.IsZero() {
		thresholdPct = DefaultAlertThresholdPct
	}

	var alerts []PriceAlert
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]

		if prev.PriceAdult != nil && cur.PriceAdult != nil && !prev.PriceAdult.IsZero() {
			changePct := cur.PriceAdult.Sub(*prev.PriceAdult).
				Div(*prev.PriceAdult).
				Mul(oneHundred)
			if changePct.Abs().GreaterThanOrEqual(thresholdPct) {
				alerts = append(alerts, PriceAlert{
					Date:    cur.Date,
					Kind:    AlertPriceSpike,
					Message: fmt.Sprintf("Price changed by %s%%", changePct.StringFixed(1)),
					Price:   cur.PriceAdult,
					Tier:    cur.Tier,
				})
			}
		}

		if tierChanged(prev.Tier, cur.Tier) {
			alerts = append(alerts, PriceAlert{
				Date:    cur.Date,
				Kind:    AlertTierChange,
				Message: fmt.Sprintf("Tier changed from %s to %s", tierLabel(prev.Tier), tierLabel(cur.Tier)),
				Price:   cur.PriceAdult,
				Tier:    cur.Tier,
			})
		}
	}
	return alerts
}

func tierChanged(prev, cur *PriceTier) bool {
	if prev == nil && cur == nil {
		return false
	}
	if prev == nil || cur == nil {
		return true
	}
	return *prev != *cur
}

func tierLabel(t *PriceTier) string {
	if t == nil {
		return "unclassified"
	}
	return t.String()
}
