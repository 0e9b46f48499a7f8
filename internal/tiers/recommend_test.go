package tiers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func tierRecord(t *testing.T, date string, price float64, tier PriceTier) DayRecord {
	t.Helper()
	return DayRecord{
		Date:       mustDate(t, date),
		PriceAdult: dptr(price),
		PriceChild: dptr(price / 2),
		Tier:       &tier,
	}
}

func TestFormatDateRangesCompression(t *testing.T) {
	dates := []time.Time{
		mustDate(t, "2025-11-01"),
		mustDate(t, "2025-11-02"),
		mustDate(t, "2025-11-05"),
		mustDate(t, "2025-11-06"),
		mustDate(t, "2025-11-08"),
	}
	if got := FormatDateRanges(dates); got != "Nov 1-2, 5-6, 8" {
		t.Fatalf(`want "Nov 1-2, 5-6, 8", got %q`, got)
	}
}

func TestFormatDateRangesEdgeCases(t *testing.T) {
	if got := FormatDateRanges(nil); got != "" {
		t.Fatalf("empty input should yield empty string, got %q", got)
	}
	if got := FormatDateRanges([]time.Time{mustDate(t, "2025-11-01")}); got != "Nov 1" {
		t.Fatalf(`single date should yield "Nov 1", got %q`, got)
	}

	// Unsorted input is sorted before compression.
	dates := []time.Time{
		mustDate(t, "2025-11-03"),
		mustDate(t, "2025-11-01"),
		mustDate(t, "2025-11-02"),
	}
	if got := FormatDateRanges(dates); got != "Nov 1-3" {
		t.Fatalf(`want "Nov 1-3", got %q`, got)
	}
}

func TestMonthlyRecommendationsMedianAndRanges(t *testing.T) {
	records := []DayRecord{
		tierRecord(t, "2025-11-01", 70, TierLowPeak),
		tierRecord(t, "2025-11-02", 72, TierLowPeak),
		tierRecord(t, "2025-11-03", 75, TierLowPeak),
		tierRecord(t, "2025-11-08", 105, TierMegaPeak),
		tierRecord(t, "2025-12-01", 80, TierShoulder),
	}

	rows := MonthlyRecommendations(records, ColumnAdult)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}

	low := rows[0]
	if low.Month != "2025-11" || low.Tier != TierLowPeak {
		t.Fatalf("first row should be 2025-11 Low Peak, got %s %s", low.Month, low.Tier)
	}
	if !low.RecommendedPrice.Equal(decimal.NewFromInt(72)) {
		t.Fatalf("median of 70/72/75 should be 72, got %s", low.RecommendedPrice)
	}
	if !low.MinPrice.Equal(decimal.NewFromInt(70)) || !low.MaxPrice.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("extrema mismatch: [%s, %s]", low.MinPrice, low.MaxPrice)
	}
	if low.NumDays != 3 {
		t.Fatalf("want 3 days, got %d", low.NumDays)
	}
	if low.Dates != "Nov 1-3" {
		t.Fatalf(`want "Nov 1-3", got %q`, low.Dates)
	}

	if rows[1].Tier != TierMegaPeak || rows[1].Dates != "Nov 8" {
		t.Fatalf("second row should be Nov Mega Peak on day 8, got %s %q", rows[1].Tier, rows[1].Dates)
	}
	if rows[2].Month != "2025-12" || rows[2].Tier != TierShoulder {
		t.Fatalf("third row should be December Shoulder, got %s %s", rows[2].Month, rows[2].Tier)
	}
}

func TestMonthlyRecommendationsMedianRounding(t *testing.T) {
	records := []DayRecord{
		tierRecord(t, "2025-11-01", 70, TierLowPeak),
		tierRecord(t, "2025-11-02", 70.55, TierLowPeak),
	}

	rows := MonthlyRecommendations(records, ColumnAdult)
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	// Even-count median interpolates: (70 + 70.55) / 2 = 70.275 → 70.28.
	if !rows[0].RecommendedPrice.Equal(decimal.NewFromFloat(70.28)) {
		t.Fatalf("want 70.28, got %s", rows[0].RecommendedPrice)
	}
}

func TestMonthlyRecommendationsDayCountConservation(t *testing.T) {
	records := []DayRecord{
		tierRecord(t, "2025-11-01", 70, TierLowPeak),
		tierRecord(t, "2025-11-02", 90, TierPeak),
		tierRecord(t, "2025-11-15", 90, TierPeak),
		tierRecord(t, "2025-12-03", 110, TierMegaPeak),
		{Date: mustDate(t, "2025-12-04")}, // no price, no tier
	}

	priced := 0
	for _, r := range records {
		if r.PriceAdult != nil {
			priced++
		}
	}

	total := 0
	for _, row := range MonthlyRecommendations(records, ColumnAdult) {
		total += row.NumDays
	}
	if total != priced {
		t.Fatalf("day counts not conserved: %d rows vs %d priced records", total, priced)
	}
}

func TestMonthlyRecommendationsChildColumn(t *testing.T) {
	records := []DayRecord{
		tierRecord(t, "2025-11-01", 70, TierLowPeak),
		{Date: mustDate(t, "2025-11-02"), PriceAdult: dptr(72), Tier: func() *PriceTier { v := TierLowPeak; return &v }()},
	}

	rows := MonthlyRecommendations(records, ColumnChild)
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	if rows[0].NumDays != 1 {
		t.Fatalf("record without a child price must not count, got %d days", rows[0].NumDays)
	}
	if !rows[0].RecommendedPrice.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("want child median 35, got %s", rows[0].RecommendedPrice)
	}
}

func TestFilterMonth(t *testing.T) {
	records := []DayRecord{
		tierRecord(t, "2025-11-01", 70, TierLowPeak),
		tierRecord(t, "2025-12-01", 80, TierShoulder),
	}

	nov, err := FilterMonth(records, "2025-11")
	if err != nil {
		t.Fatalf("valid month should not error: %v", err)
	}
	if len(nov) != 1 || nov[0].Date.Month() != time.November {
		t.Fatalf("want the single November record, got %d", len(nov))
	}

	if _, err := FilterMonth(records, "November 2025"); err == nil {
		t.Fatal("malformed month string must be reported to the caller")
	}
}
