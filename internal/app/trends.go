package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"park-price-tiers/internal/pricing"
)

// Trends prints how one calendar date's price moved across snapshots.
func (a *App) Trends(ctx context.Context, opts TrendsOptions) error {
	if _, err := time.Parse(pricing.DateLayout, opts.Date); err != nil {
		return fmt.Errorf("invalid --date value: %w", err)
	}

	snapshots, err := a.newSnapshotStore()
	if err != nil {
		return err
	}

	points, err := snapshots.PriceTrends(opts.Product, opts.Date)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintf(os.Stdout, "no snapshot history for %s on %s\n", opts.Product, opts.Date)
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Snapshot (UTC)\tAdult\tChild\tRange")

	for _, p := range points {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			p.Timestamp.UTC().Format(time.RFC3339),
			formatPrice(p.PriceAdult),
			formatPrice(p.PriceChild),
			sanitizeInline(p.SourceRange),
		)
	}

	writer.Flush()
	return nil
}
