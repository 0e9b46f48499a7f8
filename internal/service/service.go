package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"park-price-tiers/internal/alerting"
	"park-price-tiers/internal/config"
	"park-price-tiers/internal/fetcher"
	"park-price-tiers/internal/storage"
	"park-price-tiers/internal/tiers"
)

// ProductResult bundles everything one fetch produced for one product.
type ProductResult struct {
	ProductType     string
	Records         []tiers.DayRecord
	Recommendations []tiers.MonthlyRecommendation
	Alerts          []tiers.PriceAlert
	SnapshotPath    string
}

// Service orchestrates fetching, tier mapping, persistence, and alerting.
// The pipeline itself is synchronous; all blocking I/O lives in the
// collaborators it is wired with.
type Service struct {
	source      fetcher.PriceFetcher
	snapshots   *storage.SnapshotStore
	dayStore    storage.DayRecordStore
	alertStore  storage.AlertStore
	notifier    alerting.Notifier
	logger      zerolog.Logger
	threshold   decimal.Decimal
	alertsOn    bool
	saveMapped  bool
	monthsAhead int
}

// New constructs the processing service.
func New(cfg *config.Config, source fetcher.PriceFetcher, snapshots *storage.SnapshotStore, dayStore storage.DayRecordStore, alertStore storage.AlertStore, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	threshold := tiers.DefaultAlertThresholdPct
	if cfg.Alerting.ThresholdPct > 0 {
		threshold = decimal.NewFromFloat(cfg.Alerting.ThresholdPct)
	}

	return &Service{
		source:      source,
		snapshots:   snapshots,
		dayStore:    dayStore,
		alertStore:  alertStore,
		notifier:    notifier,
		logger:      logger.With().Str("component", "service").Logger(),
		threshold:   threshold,
		alertsOn:    cfg.Alerting.Enabled,
		saveMapped:  cfg.Storage.SaveMappedCSV,
		monthsAhead: cfg.Source.MonthsAhead,
	}
}

// ProcessProduct runs the full pipeline for one product type: fetch the
// calendar, snapshot the raw response, map days to tiers, aggregate
// recommendations, detect alerts, and persist/notify where configured.
func (s *Service) ProcessProduct(ctx context.Context, productType string, start, end time.Time) (*ProductResult, error) {
	if start.IsZero() || end.IsZero() {
		start, end = fetcher.DefaultDateRange(s.monthsAhead)
	}

	cal, raw, err := s.source.FetchPrices(ctx, start, end, []string{productType})
	if err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", productType, err)
	}

	fetchedAt := time.Now().UTC()

	var snapshotPath string
	if s.snapshots != nil {
		snapshotPath, err = s.snapshots.SaveSnapshot(productType, raw, fetchedAt)
		if err != nil {
			s.logger.Error().Err(err).Str("product", productType).Msg("failed to save snapshot")
		}
	}

	mapper := tiers.NewMapper(productType, s.logger)
	records := mapper.MapCalendar(cal)

	if s.snapshots != nil && s.saveMapped {
		if _, err := s.snapshots.SaveMappedCSV(productType, records, fetchedAt); err != nil {
			s.logger.Error().Err(err).Str("product", productType).Msg("failed to save mapped data")
		}
	}

	if s.dayStore != nil {
		if err := s.dayStore.UpsertDayRecords(ctx, productType, records); err != nil {
			s.logger.Error().Err(err).Str("product", productType).Msg("failed to persist day records")
		}
	}

	recommendations := tiers.MonthlyRecommendations(records, tiers.ColumnAdult)
	alerts := tiers.DetectAlerts(records, s.threshold)

	s.logger.Info().
		Str("product", productType).
		Int("days", len(records)).
		Int("recommendations", len(recommendations)).
		Int("alerts", len(alerts)).
		Msg("processed product")

	if s.alertsOn {
		s.dispatchAlerts(ctx, productType, alerts)
	}

	return &ProductResult{
		ProductType:     productType,
		Records:         records,
		Recommendations: recommendations,
		Alerts:          alerts,
		SnapshotPath:    snapshotPath,
	}, nil
}

// ProcessAll runs the pipeline for every configured product in sequence.
// Products are independent; one failure does not stop the rest.
func (s *Service) ProcessAll(ctx context.Context, productTypes []string, start, end time.Time) (map[string]*ProductResult, error) {
	results := make(map[string]*ProductResult, len(productTypes))
	failed := 0
	for _, pt := range productTypes {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result, err := s.ProcessProduct(ctx, pt, start, end)
		if err != nil {
			failed++
			s.logger.Error().Err(err).Str("product", pt).Msg("product processing failed")
			continue
		}
		results[pt] = result
	}

	if failed > 0 && len(results) == 0 {
		return results, fmt.Errorf("all %d products failed to process", failed)
	}
	return results, nil
}

func (s *Service) dispatchAlerts(ctx context.Context, productType string, alerts []tiers.PriceAlert) {
	for _, alert := range alerts {
		if s.alertStore != nil {
			record := storage.AlertRecord{
				ProductType: productType,
				Date:        alert.Date,
				Kind:        string(alert.Kind),
				Message:     alert.Message,
				Price:       alert.Price,
			}
			if alert.Tier != nil {
				label := alert.Tier.String()
				record.Tier = &label
			}
			if _, err := s.alertStore.InsertAlert(ctx, record); err != nil {
				s.logger.Error().Err(err).Time("date", alert.Date).Msg("failed to persist alert record")
			}
		}

		if s.notifier != nil {
			note := alerting.Notification{
				ProductType:  productType,
				Date:         alert.Date,
				Kind:         alert.Kind,
				Message:      alert.Message,
				Price:        alert.Price,
				Tier:         alert.Tier,
				ThresholdPct: s.threshold,
			}
			if err := s.notifier.Notify(ctx, note); err != nil {
				s.logger.Error().Err(err).Time("date", alert.Date).Msg("failed to dispatch alert")
			}
		}
	}
}
