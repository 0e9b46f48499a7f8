package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"park-price-tiers/internal/pricing"
	"park-price-tiers/internal/tiers"
)

// Show prints the mapped day records from the latest snapshot.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	records, err := a.latestRecords(opts.Product)
	if err != nil {
		return err
	}
	if records == nil {
		fmt.Fprintf(os.Stdout, "no snapshots found for %s; run fetch first\n", opts.Product)
		return nil
	}

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tAdult\tChild\tRange\tAvailable\tTier")

	for _, r := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format(pricing.DateLayout),
			formatPrice(r.PriceAdult),
			formatPrice(r.PriceChild),
			sanitizeInline(r.SourceRange),
			formatAvailability(r.Available),
			formatTier(r.Tier),
		)
	}

	writer.Flush()
	return nil
}

func formatPrice(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func formatAvailability(b *bool) string {
	if b == nil {
		return "-"
	}
	if *b {
		return "yes"
	}
	return "no"
}

func formatTier(t *tiers.PriceTier) string {
	if t == nil {
		return "-"
	}
	return t.String()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
