package app

import (
	"context"
	"time"

	"park-price-tiers/internal/storage"
)

// Fetch runs the full pipeline for the requested products.
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	products := a.resolveProducts(opts.Products)

	snapshots, err := a.newSnapshotStore()
	if err != nil {
		return err
	}

	if opts.SkipToday {
		products = a.filterAlreadyFetched(snapshots, products)
		if len(products) == 0 {
			a.Logger.Info().Msg("all products already have a snapshot for today")
			return nil
		}
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Debug().Msg("database.dsn not configured; db persistence disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	var dayStore storage.DayRecordStore
	var alertStore storage.AlertStore
	if store != nil {
		dayStore = store
		alertStore = store
	}

	svc := a.newService(snapshots, dayStore, alertStore)

	var start, end time.Time
	if opts.Start != nil {
		start = *opts.Start
	}
	if opts.End != nil {
		end = *opts.End
	}

	results, err := svc.ProcessAll(ctx, products, start, end)
	if err != nil {
		return err
	}

	for _, result := range results {
		a.Logger.Info().
			Str("product", result.ProductType).
			Int("days", len(result.Records)).
			Int("alerts", len(result.Alerts)).
			Msg("fetch complete")
	}
	return nil
}

func (a *App) filterAlreadyFetched(snapshots *storage.SnapshotStore, products []string) []string {
	pending := make([]string, 0, len(products))
	for _, pt := range products {
		done, err := snapshots.HasSnapshotForToday(pt)
		if err != nil {
			a.Logger.Warn().Err(err).Str("product", pt).Msg("could not check today's snapshot; fetching anyway")
			done = false
		}
		if done {
			a.Logger.Info().Str("product", pt).Msg("snapshot for today already exists; skipping")
			continue
		}
		pending = append(pending, pt)
	}
	return pending
}
