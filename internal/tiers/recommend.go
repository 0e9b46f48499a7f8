package tiers

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceColumn selects which price field an aggregation reads.
type PriceColumn string

const (
	ColumnAdult PriceColumn = "price_adult"
	ColumnChild PriceColumn = "price_child"
)

// Value extracts the selected price from a record, nil when undefined.
func (c PriceColumn) Value(r DayRecord) *decimal.Decimal {
	switch c {
	case ColumnChild:
		return r.PriceChild
	default:
		return r.PriceAdult
	}
}

// MonthKeyLayout formats a record month as "2025-11".
const MonthKeyLayout = "2006-01"

// MonthlyRecommendation is one (month, tier) row of the recommendation table.
type MonthlyRecommendation struct {
	Month            string
	Tier             PriceTier
	RecommendedPrice decimal.Decimal
	MinPrice         decimal.Decimal
	MaxPrice         decimal.Decimal
	NumDays          int
	Dates            string
}

// MonthlyRecommendations groups mapped records by calendar month and tier,
// emitting a row for every pair that has at least one record with a defined
// value in column. RecommendedPrice is the group median rounded to two
// decimals; min/max are the unrounded extrema; Dates is the compressed
// date-range string over the group's dates.
func MonthlyRecommendations(records []DayRecord, column PriceColumn) []MonthlyRecommendation {
	type groupKey struct {
		month string
		tier  PriceTier
	}

	groups := make(map[groupKey][]DayRecord)
	var monthOrder []string
	seenMonths := make(map[string]bool)

	for _, r := range records {
		if r.Tier == nil || column.Value(r) == nil {
			continue
		}
		month := r.Date.Format(MonthKeyLayout)
		if !seenMonths[month] {
			seenMonths[month] = true
			monthOrder = append(monthOrder, month)
		}
		key := groupKey{month: month, tier: *r.Tier}
		groups[key] = append(groups[key], r)
	}

	var rows []MonthlyRecommendation
	for _, month := range monthOrder {
		for _, tier := range AllTiers() {
			group, ok := groups[groupKey{month: month, tier: tier}]
			if !ok {
				continue
			}

			prices := make([]decimal.Decimal, 0, len(group))
			dates := make([]time.Time, 0, len(group))
			for _, r := range group {
				prices = append(prices, *column.Value(r))
				dates = append(dates, r.Date)
			}
			sort.Slice(prices, func(i, j int) bool { return prices[i].LessThan(prices[j]) })

			rows = append(rows, MonthlyRecommendation{
				Month:            month,
				Tier:             tier,
				RecommendedPrice: percentile(prices, q50).Round(2),
				MinPrice:         prices[0],
				MaxPrice:         prices[len(prices)-1],
				NumDays:          len(group),
				Dates:            FormatDateRanges(dates),
			})
		}
	}
	return rows
}

// FilterMonth keeps only records falling inside the "YYYY-MM" month. A
// malformed month string is fatal to this call and reported to the caller.
func FilterMonth(records []DayRecord, month string) ([]DayRecord, error) {
	if _, err := time.Parse(MonthKeyLayout, month); err != nil {
		return nil, fmt.Errorf("invalid month %q (want YYYY-MM): %w", month, err)
	}

	filtered := make([]DayRecord, 0, len(records))
	for _, r := range records {
		if r.Date.Format(MonthKeyLayout) == month {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// FormatDateRanges compresses a set of dates into a readable string such as
// "Nov 1-3, 8-10, 15". Runs of consecutive days merge into "D1-D2" tokens,
// isolated days stay as "D", and the three-letter month abbreviation of the
// first date prefixes the result once. Empty input yields "".
func FormatDateRanges(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var tokens []string
	start := sorted[0]
	end := sorted[0]

	flush := func() {
		if start.Equal(end) {
			tokens = append(tokens, fmt.Sprintf("%d", start.Day()))
		} else {
			tokens = append(tokens, fmt.Sprintf("%d-%d", start.Day(), end.Day()))
		}
	}

	for _, d := range sorted[1:] {
		if d.Sub(end) == 24*time.Hour {
			end = d
			continue
		}
		flush()
		start = d
		end = d
	}
	flush()

	return fmt.Sprintf("%s %s", sorted[0].Format("Jan"), strings.Join(tokens, ", "))
}
