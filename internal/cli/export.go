package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"park-price-tiers/internal/app"
)

var (
	exportProduct string
	exportCSVPath string
	exportPNGPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the mapped calendar as CSV and/or PNG timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportCSVPath == "" && exportPNGPath == "" {
			return fmt.Errorf("at least one of --csv or --png must be provided")
		}

		opts := app.ExportOptions{
			Product: exportProduct,
			CSVPath: exportCSVPath,
			PNGPath: exportPNGPath,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportProduct, "product", "1-day-1-park", "Product type to export")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
}
