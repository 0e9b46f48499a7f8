package tiers

import "fmt"

// PriceTier is one of the five demand bands a priced day can fall into.
// The numeric order is ascending by price and is significant: classification
// scans tiers in this order and display output follows it.
type PriceTier int

const (
	TierLowPeak PriceTier = iota
	TierShoulder
	TierPeak
	TierSuperPeak
	TierMegaPeak
)

var tierLabels = [...]string{
	TierLowPeak:   "Low Peak",
	TierShoulder:  "Shoulder (Normal)",
	TierPeak:      "Peak",
	TierSuperPeak: "Super Peak",
	TierMegaPeak:  "Mega Peak",
}

// AllTiers returns every tier in ascending price order.
func AllTiers() []PriceTier {
	return []PriceTier{TierLowPeak, TierShoulder, TierPeak, TierSuperPeak, TierMegaPeak}
}

// String returns the display label for the tier.
func (t PriceTier) String() string {
	if t < 0 || int(t) >= len(tierLabels) {
		return fmt.Sprintf("PriceTier(%d)", int(t))
	}
	return tierLabels[t]
}

// ParsePriceTier resolves a display label back to its tier.
func ParsePriceTier(label string) (PriceTier, error) {
	for _, tier := range AllTiers() {
		if tierLabels[tier] == label {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown price tier %q", label)
}
