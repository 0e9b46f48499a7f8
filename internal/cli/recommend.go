package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
)

var (
	recommendProduct string
	recommendColumn  string
	recommendMonth   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print monthly tier recommendations with date ranges",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recommendColumn != "adult" && recommendColumn != "child" {
			return fmt.Errorf("--column must be adult or child, got %q", recommendColumn)
		}

		opts := app.RecommendOptions{
			Product:     recommendProduct,
			PriceColumn: recommendColumn,
			Month:       recommendMonth,
		}

		return getApp().Recommend(cmd.Context(), opts)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendProduct, "product", "1-day-1-park", "Product type to recommend for")
	recommendCmd.Flags().StringVar(&recommendColumn, "column", "adult", "Price column to aggregate (adult or child)")
	recommendCmd.Flags().StringVar(&recommendMonth, "month", "", "Restrict to one month (YYYY-MM)")
}
