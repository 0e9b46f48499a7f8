package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"park-price-tiers/internal/pricing"
	"park-price-tiers/internal/tiers"
)

// Alerts detects and prints price anomalies in the latest snapshot.
func (a *App) Alerts(ctx context.Context, opts AlertsOptions) error {
	records, err := a.latestRecords(opts.Product)
	if err != nil {
		return err
	}
	if records == nil {
		fmt.Fprintf(os.Stdout, "no snapshots found for %s; run fetch first\n", opts.Product)
		return nil
	}

	threshold := decimal.NewFromFloat(a.Config.Alerting.ThresholdPct)
	if opts.ThresholdPct > 0 {
		threshold = decimal.NewFromFloat(opts.ThresholdPct)
	}

	alerts := tiers.DetectAlerts(records, threshold)
	if len(alerts) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts detected")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tKind\tPrice\tTier\tMessage")

	for _, alert := range alerts {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\n",
			alert.Date.Format(pricing.DateLayout),
			alert.Kind,
			formatPrice(alert.Price),
			formatTier(alert.Tier),
			alert.Message,
		)
	}

	writer.Flush()
	return nil
}
