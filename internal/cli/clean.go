package cli

import (
	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
)

var cleanRetentionDays int

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove snapshots and alerts past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.CleanOptions{
			RetentionDays: cleanRetentionDays,
		}

		return getApp().Clean(cmd.Context(), opts)
	},
}

func init() {
	cleanCmd.Flags().IntVar(&cleanRetentionDays, "retention-days", 0, "Retention window in days (0 = config default)")
}
