package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"park-price-tiers/internal/tiers"
)

// Recommend prints the monthly tier recommendation table for a product.
func (a *App) Recommend(ctx context.Context, opts RecommendOptions) error {
	records, err := a.latestRecords(opts.Product)
	if err != nil {
		return err
	}
	if records == nil {
		fmt.Fprintf(os.Stdout, "no snapshots found for %s; run fetch first\n", opts.Product)
		return nil
	}

	if opts.Month != "" {
		records, err = tiers.FilterMonth(records, opts.Month)
		if err != nil {
			return err
		}
	}

	column := tiers.ColumnAdult
	if opts.PriceColumn == "child" {
		column = tiers.ColumnChild
	}

	rows := tiers.MonthlyRecommendations(records, column)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "no priced days to recommend from")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Month\tTier\tRecommended\tMin\tMax\tDays\tDates")

	for _, row := range rows {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			row.Month,
			row.Tier,
			row.RecommendedPrice.StringFixed(2),
			row.MinPrice.StringFixed(2),
			row.MaxPrice.StringFixed(2),
			row.NumDays,
			row.Dates,
		)
	}

	writer.Flush()
	return nil
}
