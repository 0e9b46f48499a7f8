package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
)

var (
	showProduct string
	showLimit   int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the latest mapped calendar for a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		opts := app.ShowOptions{
			Product: showProduct,
			Limit:   showLimit,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showProduct, "product", "1-day-1-park", "Product type to display")
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Maximum number of days to display (0 = all)")
}
