package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"park-price-tiers/internal/pricing"
	"park-price-tiers/internal/tiers"
)

// tierColors matches the presentation palette used across the project.
var tierColors = map[tiers.PriceTier]drawing.Color{
	tiers.TierLowPeak:   drawing.ColorFromHex("2ecc71"),
	tiers.TierShoulder:  drawing.ColorFromHex("3498db"),
	tiers.TierPeak:      drawing.ColorFromHex("f39c12"),
	tiers.TierSuperPeak: drawing.ColorFromHex("e74c3c"),
	tiers.TierMegaPeak:  drawing.ColorFromHex("8e44ad"),
}

// Export renders the latest mapped calendar as CSV and/or a PNG timeline.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	records, err := a.latestRecords(opts.Product)
	if err != nil {
		return err
	}
	if records == nil {
		return fmt.Errorf("no snapshots found for %s; run fetch first", opts.Product)
	}
	if len(records) == 0 {
		a.Logger.Info().Str("product", opts.Product).Msg("no mapped days to export")
		return nil
	}

	a.Logger.Info().Str("product", opts.Product).Int("days", len(records)).Msg("exporting mapped calendar")

	if opts.CSVPath != "" {
		if err := writeRecordsCSV(opts.CSVPath, records); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writeTimelinePNG(opts.PNGPath, opts.Product, records); err != nil {
			return err
		}
	}

	return nil
}

func writeRecordsCSV(path string, records []tiers.DayRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "price_adult", "price_child", "source_range", "available", "tier"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		adult, child := "", ""
		if r.PriceAdult != nil {
			adult = r.PriceAdult.String()
		}
		if r.PriceChild != nil {
			child = r.PriceChild.String()
		}
		row := []string{
			r.Date.Format(pricing.DateLayout),
			adult,
			child,
			r.SourceRange,
			formatAvailability(r.Available),
			formatTier(r.Tier),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func (a *App) writeTimelinePNG(path, productType string, records []tiers.DayRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	type seriesData struct {
		x []time.Time
		y []float64
	}
	byTier := make(map[tiers.PriceTier]*seriesData)

	for _, r := range records {
		if r.PriceAdult == nil || r.Tier == nil {
			continue
		}
		data, ok := byTier[*r.Tier]
		if !ok {
			data = &seriesData{}
			byTier[*r.Tier] = data
		}
		data.x = append(data.x, r.Date)
		data.y = append(data.y, r.PriceAdult.InexactFloat64())
	}
	if len(byTier) == 0 {
		return errors.New("no classified days to chart")
	}

	var series []chart.Series
	for _, tier := range tiers.AllTiers() {
		data, ok := byTier[tier]
		if !ok {
			continue
		}
		color := tierColors[tier]
		series = append(series, chart.TimeSeries{
			Name:    tier.String(),
			XValues: data.x,
			YValues: data.y,
			Style: chart.Style{
				StrokeColor: color,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s adult price timeline", productType),
		Width:  a.Config.Export.ChartWidth,
		Height: a.Config.Export.ChartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Adult Price (EUR)",
			ValueFormatter: priceFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
