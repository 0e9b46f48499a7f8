package tiers

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"park-price-tiers/internal/pricing"
)

// DayRecord is one mapped calendar day for one product. Records are read-only
// after mapping and are collected date-ascending per product per fetch.
type DayRecord struct {
	Date        time.Time
	PriceAdult  *decimal.Decimal
	PriceChild  *decimal.Decimal
	SourceRange string
	Available   *bool
	Tier        *PriceTier
}

// Mapper assigns tiers across a pricing calendar for a single product type.
// The cached threshold table is its only mutable state; use one Mapper per
// product, never a shared instance across concurrent products.
type Mapper struct {
	productType string
	thresholds  ThresholdTable
	logger      zerolog.Logger
}

// NewMapper constructs a mapper scoped to one product type.
func NewMapper(productType string, logger zerolog.Logger) *Mapper {
	return &Mapper{
		productType: productType,
		logger:      logger.With().Str("component", "tier_mapper").Str("product", productType).Logger(),
	}
}

// ProductType returns the product this mapper is scoped to.
func (m *Mapper) ProductType() string {
	return m.productType
}

// Thresholds returns the currently cached threshold table (nil before the
// first calculation).
func (m *Mapper) Thresholds() ThresholdTable {
	return m.thresholds
}

// SetThresholds replaces the cached table with a caller-supplied one.
func (m *Mapper) SetThresholds(table ThresholdTable) {
	m.thresholds = table
	m.logger.Info().Int("tiers", len(table)).Msg("custom thresholds set")
}

// CalculateThresholds builds and caches a threshold table from every defined
// adult price in the calendar for this mapper's product.
func (m *Mapper) CalculateThresholds(cal pricing.Calendar) ThresholdTable {
	prices := m.adultPrices(cal)
	if len(prices) == 0 {
		m.logger.Warn().Msg("no prices found for threshold calculation")
		m.thresholds = ThresholdTable{}
		return m.thresholds
	}

	m.thresholds = CalculateThresholds(prices)
	for _, tier := range AllTiers() {
		iv := m.thresholds[tier]
		m.logger.Info().
			Str("tier", tier.String()).
			Str("min", iv.Min.StringFixed(2)).
			Str("max", iv.Max.StringFixed(2)).
			Msg("threshold band")
	}
	return m.thresholds
}

func (m *Mapper) adultPrices(cal pricing.Calendar) []decimal.Decimal {
	var prices []decimal.Decimal
	for _, day := range cal.Calendar {
		product, ok := day.Products[m.productType]
		if !ok || product.PriceAdult == nil {
			continue
		}
		prices = append(prices, *product.PriceAdult)
	}
	return prices
}

// Classify maps one price through the cached table.
func (m *Mapper) Classify(price decimal.Decimal) (PriceTier, bool) {
	tier, ok := Classify(price, m.thresholds)
	if !ok && !m.thresholds.IsEmpty() {
		m.logger.Warn().Str("price", price.String()).Msg("price does not fall within any tier")
	}
	return tier, ok
}

// MapCalendar turns a raw calendar into an ordered DayRecord sequence.
// Thresholds are computed lazily from the same calendar when not yet cached.
// Days without an entry for the mapper's product are omitted; days without an
// adult price keep an absent tier.
func (m *Mapper) MapCalendar(cal pricing.Calendar) []DayRecord {
	if m.thresholds == nil {
		m.logger.Info().Msg("calculating thresholds from calendar")
		m.CalculateThresholds(cal)
	}

	records := make([]DayRecord, 0, len(cal.Calendar))
	for _, day := range cal.Calendar {
		product, ok := day.Products[m.productType]
		if !ok {
			continue
		}

		date, err := day.Time()
		if err != nil {
			m.logger.Warn().Err(err).Msg("skipping day with unparseable date")
			continue
		}

		record := DayRecord{
			Date:        date,
			PriceAdult:  product.PriceAdult,
			PriceChild:  product.PriceChild,
			SourceRange: product.Range,
			Available:   product.Available,
		}
		if product.PriceAdult != nil {
			if tier, classified := m.Classify(*product.PriceAdult); classified {
				t := tier
				record.Tier = &t
			}
		}
		records = append(records, record)
	}

	m.logger.Info().Int("days", len(records)).Msg("mapped calendar to tiers")
	return records
}
