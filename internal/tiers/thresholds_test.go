package tiers

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decs(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestCalculateThresholdsScenario(t *testing.T) {
	table := CalculateThresholds(decs(70, 80, 90, 100, 110))
	if table.IsEmpty() {
		t.Fatal("table should not be empty")
	}

	expect := map[PriceTier][2]string{
		TierLowPeak:   {"70", "78"},
		TierShoulder:  {"78", "86"},
		TierPeak:      {"86", "94"},
		TierSuperPeak: {"94", "102"},
		TierMegaPeak:  {"102", "110"},
	}
	for tier, bounds := range expect {
		iv := table[tier]
		if iv.Min.String() != bounds[0] || iv.Max.String() != bounds[1] {
			t.Fatalf("%s: want [%s, %s], got [%s, %s]", tier, bounds[0], bounds[1], iv.Min, iv.Max)
		}
	}
}

func TestThresholdContiguity(t *testing.T) {
	samples := [][]decimal.Decimal{
		decs(70, 80, 90, 100, 110),
		decs(55.5, 62, 62, 75.25, 99, 120, 120, 135),
		decs(42),
		decs(10, 10, 10),
	}

	for _, prices := range samples {
		table := CalculateThresholds(prices)
		ordered := AllTiers()
		for i := 0; i < len(ordered)-1; i++ {
			lower := table[ordered[i]]
			upper := table[ordered[i+1]]
			if !lower.Max.Equal(upper.Min) {
				t.Fatalf("tiers %s/%s not contiguous: %s != %s", ordered[i], ordered[i+1], lower.Max, upper.Min)
			}
		}

		minPrice, maxPrice := prices[0], prices[0]
		for _, p := range prices {
			if p.LessThan(minPrice) {
				minPrice = p
			}
			if p.GreaterThan(maxPrice) {
				maxPrice = p
			}
		}
		if !table[TierLowPeak].Min.Equal(minPrice) {
			t.Fatalf("lowest tier min %s != sample min %s", table[TierLowPeak].Min, minPrice)
		}
		if !table[TierMegaPeak].Max.Equal(maxPrice) {
			t.Fatalf("highest tier max %s != sample max %s", table[TierMegaPeak].Max, maxPrice)
		}
	}
}

func TestClassificationTotalityOnSample(t *testing.T) {
	prices := decs(70, 80, 90, 100, 110, 73.5, 101.99)
	table := CalculateThresholds(prices)

	for _, p := range prices {
		if _, ok := Classify(p, table); !ok {
			t.Fatalf("sample price %s failed to classify", p)
		}
	}
}

func TestClassifyScenarioEndpoints(t *testing.T) {
	table := CalculateThresholds(decs(70, 80, 90, 100, 110))

	tier, ok := Classify(decimal.NewFromInt(70), table)
	if !ok || tier != TierLowPeak {
		t.Fatalf("70 should classify as Low Peak, got %s (ok=%v)", tier, ok)
	}

	tier, ok = Classify(decimal.NewFromInt(110), table)
	if !ok || tier != TierMegaPeak {
		t.Fatalf("110 should classify as Mega Peak, got %s (ok=%v)", tier, ok)
	}
}

func TestClassifySharedBoundaryLowerTierWins(t *testing.T) {
	table := CalculateThresholds(decs(70, 80, 90, 100, 110))

	// 78 is both Low Peak's max and Shoulder's min.
	tier, ok := Classify(decimal.NewFromInt(78), table)
	if !ok {
		t.Fatal("boundary price should classify")
	}
	if tier != TierLowPeak {
		t.Fatalf("boundary should resolve to lower tier, got %s", tier)
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	table := CalculateThresholds(decs(70, 80, 90, 100, 110))

	if _, ok := Classify(decimal.NewFromInt(250), table); ok {
		t.Fatal("price above sample max should not classify")
	}
	if _, ok := Classify(decimal.NewFromInt(5), table); ok {
		t.Fatal("price below sample min should not classify")
	}
}

func TestEmptySampleSafety(t *testing.T) {
	table := CalculateThresholds(nil)
	if !table.IsEmpty() {
		t.Fatal("empty sample should produce an empty table")
	}
	if _, ok := Classify(decimal.NewFromInt(99), table); ok {
		t.Fatal("classification against an empty table should return absence")
	}
}

func TestSingleValueSample(t *testing.T) {
	table := CalculateThresholds(decs(42))
	tier, ok := Classify(decimal.NewFromInt(42), table)
	if !ok || tier != TierLowPeak {
		t.Fatalf("single-value sample should classify its own value into the lowest tier, got %s (ok=%v)", tier, ok)
	}
}
