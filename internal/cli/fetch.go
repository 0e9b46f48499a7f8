package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
	"park-price-tiers/internal/pricing"
)

var (
	fetchProducts  []string
	fetchStart     string
	fetchEnd       string
	fetchSkipToday bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the pricing calendar and run the mapping pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.FetchOptions{
			Products:  fetchProducts,
			SkipToday: fetchSkipToday,
		}

		if fetchStart != "" {
			start, err := time.Parse(pricing.DateLayout, fetchStart)
			if err != nil {
				return fmt.Errorf("invalid --start value: %w", err)
			}
			opts.Start = &start
		}

		if fetchEnd != "" {
			end, err := time.Parse(pricing.DateLayout, fetchEnd)
			if err != nil {
				return fmt.Errorf("invalid --end value: %w", err)
			}
			opts.End = &end
		}

		if opts.Start != nil && opts.End != nil && !opts.Start.Before(*opts.End) {
			return fmt.Errorf("--start must be before --end")
		}

		return getApp().Fetch(cmd.Context(), opts)
	},
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchProducts, "product", nil, "Product types to fetch (defaults to config)")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "Calendar start date (YYYY-MM-DD, defaults to today)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "Calendar end date (YYYY-MM-DD, defaults to config horizon)")
	fetchCmd.Flags().BoolVar(&fetchSkipToday, "skip-today", false, "Skip products that already have a snapshot for today")
}
