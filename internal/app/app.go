package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"park-price-tiers/internal/alerting"
	"park-price-tiers/internal/config"
	"park-price-tiers/internal/fetcher"
	"park-price-tiers/internal/pricing"
	"park-price-tiers/internal/service"
	"park-price-tiers/internal/storage"
	"park-price-tiers/internal/tiers"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.PriceFetcher {
	return fetcher.NewDisney(fetcher.DisneyOptions{
		BaseURL:      a.Config.Source.BaseURL,
		Market:       a.Config.Source.Market,
		Currency:     a.Config.Source.Currency,
		Timeout:      a.Config.Source.RequestTimeout,
		MaxRetries:   a.Config.Source.MaxRetries,
		RetryBackoff: a.Config.Source.RetryBackoff,
		UserAgent:    a.Config.Source.UserAgent,
	}, a.Logger)
}

func (a *App) newSnapshotStore() (*storage.SnapshotStore, error) {
	return storage.NewSnapshotStore(afero.NewOsFs(), a.Config.Storage.DataDir, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// resolveProducts returns the requested product types, falling back to the
// configured list.
func (a *App) resolveProducts(requested []string) []string {
	if len(requested) > 0 {
		return requested
	}
	return a.Config.Products
}

// latestRecords maps the most recent snapshot for a product into day records.
// Returns a nil slice when no snapshot exists yet.
func (a *App) latestRecords(productType string) ([]tiers.DayRecord, error) {
	snapshots, err := a.newSnapshotStore()
	if err != nil {
		return nil, err
	}

	latest, err := snapshots.LoadLatestSnapshot(productType)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	cal, err := pricing.ParseCalendar(latest.Data)
	if err != nil {
		return nil, fmt.Errorf("decode latest snapshot for %s: %w", productType, err)
	}

	mapper := tiers.NewMapper(productType, a.Logger)
	return mapper.MapCalendar(cal), nil
}

func (a *App) newService(snapshots *storage.SnapshotStore, dayStore storage.DayRecordStore, alertStore storage.AlertStore) *service.Service {
	return service.New(a.Config, a.newFetcher(), snapshots, dayStore, alertStore, a.newNotifier(), a.Logger)
}

// FetchOptions hold parameters for the fetch command.
type FetchOptions struct {
	Products  []string
	Start     *time.Time
	End       *time.Time
	SkipToday bool
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Product string
	Limit   int
}

// RecommendOptions configure the recommend command.
type RecommendOptions struct {
	Product     string
	PriceColumn string
	Month       string
}

// AlertsOptions configure the alerts command.
type AlertsOptions struct {
	Product      string
	ThresholdPct float64
}

// TrendsOptions configure the trends command.
type TrendsOptions struct {
	Product string
	Date    string
}

// ExportOptions hold parameters for exporting mapped data.
type ExportOptions struct {
	Product string
	CSVPath string
	PNGPath string
}

// CleanOptions configure snapshot retention cleanup.
type CleanOptions struct {
	RetentionDays int
}
