package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
)

var (
	trendsProduct string
	trendsDate    string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show how one calendar date's price moved across snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trendsDate == "" {
			return fmt.Errorf("--date must be provided")
		}

		opts := app.TrendsOptions{
			Product: trendsProduct,
			Date:    trendsDate,
		}

		return getApp().Trends(cmd.Context(), opts)
	},
}

func init() {
	trendsCmd.Flags().StringVar(&trendsProduct, "product", "1-day-1-park", "Product type to inspect")
	trendsCmd.Flags().StringVar(&trendsDate, "date", "", "Calendar date to track (YYYY-MM-DD)")
}
