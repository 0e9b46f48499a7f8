package pricing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by the pricing source.
const DateLayout = "2006-01-02"

// Calendar is the typed form of one pricing source response.
type Calendar struct {
	Calendar []Day `json:"calendar"`
}

// Day carries the per-product pricing for a single calendar date.
type Day struct {
	Date     string             `json:"date"`
	Products map[string]Product `json:"products"`
}

// Product holds the source-side pricing fields for one product on one day.
// Prices are absent when no ticket is sold that day.
type Product struct {
	PriceAdult *decimal.Decimal `json:"priceAdult,omitempty"`
	PriceChild *decimal.Decimal `json:"priceChild,omitempty"`
	Range      string           `json:"range,omitempty"`
	Available  *bool            `json:"available,omitempty"`
}

// ParseCalendar validates a raw source payload into a typed Calendar.
// The response shape is externally fixed; parsing happens once on ingress.
func ParseCalendar(raw json.RawMessage) (Calendar, error) {
	var cal Calendar
	if err := json.Unmarshal(raw, &cal); err != nil {
		return Calendar{}, fmt.Errorf("parse pricing calendar: %w", err)
	}
	return cal, nil
}

// Time parses the day's ISO date.
func (d Day) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse calendar date %q: %w", d.Date, err)
	}
	return t, nil
}
