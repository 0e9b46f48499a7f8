package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
)

var (
	alertsProduct   string
	alertsThreshold float64
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Detect price spikes and tier changes in the latest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if alertsThreshold < 0 {
			return fmt.Errorf("--threshold must not be negative")
		}

		opts := app.AlertsOptions{
			Product:      alertsProduct,
			ThresholdPct: alertsThreshold,
		}

		return getApp().Alerts(cmd.Context(), opts)
	},
}

func init() {
	alertsCmd.Flags().StringVar(&alertsProduct, "product", "1-day-1-park", "Product type to scan")
	alertsCmd.Flags().Float64Var(&alertsThreshold, "threshold", 0, "Day-over-day change percentage (0 = config default)")
}
