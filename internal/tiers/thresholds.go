package tiers

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Interval is a closed price range [Min, Max].
type Interval struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether price falls within the closed interval.
func (iv Interval) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(iv.Min) && price.LessThanOrEqual(iv.Max)
}

// ThresholdTable maps each tier to its price interval. The five intervals are
// contiguous: tier i's Max equals tier i+1's Min, the lowest Min is the sample
// minimum and the highest Max is the sample maximum. A zero-length table is
// the recognised "no data" state, not an error.
type ThresholdTable map[PriceTier]Interval

// IsEmpty reports whether the table holds no intervals.
func (t ThresholdTable) IsEmpty() bool {
	return len(t) == 0
}

var (
	q20 = decimal.NewFromFloat(0.20)
	q40 = decimal.NewFromFloat(0.40)
	q60 = decimal.NewFromFloat(0.60)
	q80 = decimal.NewFromFloat(0.80)
	q50 = decimal.NewFromFloat(0.50)
)

// CalculateThresholds partitions a price sample into five quantile-width
// bands. An empty sample yields an empty table.
func CalculateThresholds(prices []decimal.Decimal) ThresholdTable {
	if len(prices) == 0 {
		return ThresholdTable{}
	}

	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	minPrice := sorted[0]
	maxPrice := sorted[len(sorted)-1]
	p20 := percentile(sorted, q20)
	p40 := percentile(sorted, q40)
	p60 := percentile(sorted, q60)
	p80 := percentile(sorted, q80)

	return ThresholdTable{
		TierLowPeak:   {Min: minPrice, Max: p20},
		TierShoulder:  {Min: p20, Max: p40},
		TierPeak:      {Min: p40, Max: p60},
		TierSuperPeak: {Min: p60, Max: p80},
		TierMegaPeak:  {Min: p80, Max: maxPrice},
	}
}

// percentile computes quantile q over an ascending-sorted sample using linear
// interpolation between order statistics (the R-7 method). The rank math stays
// in decimal so boundaries land exactly on representable prices.
func percentile(sorted []decimal.Decimal, q decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := q.Mul(decimal.NewFromInt(int64(n - 1)))
	lower := rank.IntPart()
	frac := rank.Sub(decimal.NewFromInt(lower))

	if int(lower)+1 >= n {
		return sorted[n-1]
	}
	lo := sorted[lower]
	hi := sorted[lower+1]
	return lo.Add(hi.Sub(lo).Mul(frac))
}

// Classify scans tiers in ascending order and returns the first tier whose
// closed interval contains price. At a shared boundary the lower tier wins.
// The second return is false when the table is empty or the price lies outside
// every interval; both are expected, non-fatal conditions.
func Classify(price decimal.Decimal, table ThresholdTable) (PriceTier, bool) {
	if table.IsEmpty() {
		return 0, false
	}
	for _, tier := range AllTiers() {
		iv, ok := table[tier]
		if !ok {
			continue
		}
		if iv.Contains(price) {
			return tier, true
		}
	}
	return 0, false
}
