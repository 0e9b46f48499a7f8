package tiers

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"park-price-tiers/internal/pricing"
)

const testProduct = "1-day-1-park"

func dptr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func bptr(v bool) *bool {
	return &v
}

func calendarDay(date string, adult *decimal.Decimal) pricing.Day {
	return pricing.Day{
		Date: date,
		Products: map[string]pricing.Product{
			testProduct: {
				PriceAdult: adult,
				PriceChild: adult,
				Range:      "STANDARD",
				Available:  bptr(true),
			},
		},
	}
}

func scenarioCalendar() pricing.Calendar {
	return pricing.Calendar{Calendar: []pricing.Day{
		calendarDay("2025-11-01", dptr(70)),
		calendarDay("2025-11-02", dptr(80)),
		calendarDay("2025-11-03", dptr(90)),
		calendarDay("2025-11-04", dptr(100)),
		calendarDay("2025-11-05", dptr(110)),
	}}
}

func TestMapCalendarScenario(t *testing.T) {
	mapper := NewMapper(testProduct, zerolog.Nop())
	records := mapper.MapCalendar(scenarioCalendar())

	if len(records) != 5 {
		t.Fatalf("want 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if !records[i-1].Date.Before(records[i].Date) {
			t.Fatalf("records not date-ascending at index %d", i)
		}
	}

	if records[0].Tier == nil || *records[0].Tier != TierLowPeak {
		t.Fatalf("Nov 1 (70) should be Low Peak, got %v", records[0].Tier)
	}
	if records[4].Tier == nil || *records[4].Tier != TierMegaPeak {
		t.Fatalf("Nov 5 (110) should be Mega Peak, got %v", records[4].Tier)
	}
}

func TestMapCalendarLazyThresholds(t *testing.T) {
	mapper := NewMapper(testProduct, zerolog.Nop())
	if mapper.Thresholds() != nil {
		t.Fatal("thresholds should be unset before first mapping")
	}

	mapper.MapCalendar(scenarioCalendar())
	if mapper.Thresholds().IsEmpty() {
		t.Fatal("thresholds should be cached after first mapping")
	}
}

func TestMapCalendarCustomThresholds(t *testing.T) {
	mapper := NewMapper(testProduct, zerolog.Nop())
	mapper.SetThresholds(ThresholdTable{
		TierLowPeak:   {Min: decimal.NewFromInt(0), Max: decimal.NewFromInt(75)},
		TierShoulder:  {Min: decimal.NewFromInt(75), Max: decimal.NewFromInt(200)},
		TierPeak:      {Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(200)},
		TierSuperPeak: {Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(200)},
		TierMegaPeak:  {Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(200)},
	})

	records := mapper.MapCalendar(scenarioCalendar())
	if records[0].Tier == nil || *records[0].Tier != TierLowPeak {
		t.Fatalf("custom thresholds should drive classification, got %v", records[0].Tier)
	}
	if records[4].Tier == nil || *records[4].Tier != TierShoulder {
		t.Fatalf("110 should fall into custom Shoulder band, got %v", records[4].Tier)
	}
}

func TestMapCalendarOmitsMissingProduct(t *testing.T) {
	cal := pricing.Calendar{Calendar: []pricing.Day{
		{Date: "2025-11-01", Products: map[string]pricing.Product{
			"2-day-2-parks": {PriceAdult: dptr(120)},
		}},
	}}

	mapper := NewMapper(testProduct, zerolog.Nop())
	records := mapper.MapCalendar(cal)
	if len(records) != 0 {
		t.Fatalf("day without the requested product must be omitted, got %d records", len(records))
	}
}

func TestMapCalendarAbsentAdultPrice(t *testing.T) {
	cal := scenarioCalendar()
	cal.Calendar = append(cal.Calendar, pricing.Day{
		Date: "2025-11-06",
		Products: map[string]pricing.Product{
			testProduct: {Range: "SOLD_OUT", Available: bptr(false)},
		},
	})

	mapper := NewMapper(testProduct, zerolog.Nop())
	records := mapper.MapCalendar(cal)
	if len(records) != 6 {
		t.Fatalf("want 6 records, got %d", len(records))
	}

	last := records[5]
	if last.PriceAdult != nil {
		t.Fatal("adult price should be absent")
	}
	if last.Tier != nil {
		t.Fatal("record without an adult price must not carry a tier")
	}
	if last.SourceRange != "SOLD_OUT" {
		t.Fatalf("source range should pass through, got %q", last.SourceRange)
	}
}

func TestMapCalendarEmptySample(t *testing.T) {
	cal := pricing.Calendar{Calendar: []pricing.Day{
		{Date: "2025-11-01", Products: map[string]pricing.Product{
			testProduct: {Available: bptr(false)},
		}},
	}}

	mapper := NewMapper(testProduct, zerolog.Nop())
	records := mapper.MapCalendar(cal)
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if records[0].Tier != nil {
		t.Fatal("empty price sample must yield records with absent tiers")
	}
	if !mapper.Thresholds().IsEmpty() {
		t.Fatal("empty sample should cache an empty threshold table")
	}
}
