package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"park-price-tiers/internal/tiers"
)

const testProduct = "1-day-1-park"

func decimalFrom(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func newTestStore(t *testing.T) (*SnapshotStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := NewSnapshotStore(fs, "data", zerolog.Nop())
	if err != nil {
		t.Fatalf("create snapshot store: %v", err)
	}
	return store, fs
}

func rawCalendar(date string, adult float64) json.RawMessage {
	payload := fmt.Sprintf(`{"calendar":[{"date":%q,"products":{%q:{"priceAdult":%g,"priceChild":%g,"range":"LOW","available":true}}}]}`,
		date, testProduct, adult, adult-5)
	return json.RawMessage(payload)
}

func TestSnapshotSaveAndLoadLatest(t *testing.T) {
	store, _ := newTestStore(t)

	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	if _, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-01", 70), base); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if _, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-01", 75), base.Add(24*time.Hour)); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	latest, err := store.LoadLatestSnapshot(testProduct)
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest == nil {
		t.Fatal("latest snapshot should exist")
	}
	if !latest.Timestamp.Equal(base.Add(24 * time.Hour)) {
		t.Fatalf("latest should be the newer snapshot, got %s", latest.Timestamp)
	}
	if !strings.Contains(string(latest.Data), `"priceAdult":75`) {
		t.Fatalf("latest payload mismatch: %s", latest.Data)
	}
}

func TestSnapshotLoadLatestMissingIsAbsence(t *testing.T) {
	store, _ := newTestStore(t)

	latest, err := store.LoadLatestSnapshot(testProduct)
	if err != nil {
		t.Fatalf("missing snapshot must not be an error: %v", err)
	}
	if latest != nil {
		t.Fatal("missing snapshot should return absence")
	}
}

func TestSnapshotLoadAllCreationOrder(t *testing.T) {
	store, _ := newTestStore(t)

	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		if _, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-01", 70+float64(i)), ts); err != nil {
			t.Fatalf("save snapshot: %v", err)
		}
	}
	// Another product's snapshots must not leak in.
	if _, err := store.SaveSnapshot("2-day-2-parks", rawCalendar("2025-12-01", 120), base); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	snapshots, err := store.LoadAllSnapshots(testProduct)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("want 3 snapshots, got %d", len(snapshots))
	}
	for i := 1; i < len(snapshots); i++ {
		if !snapshots[i-1].Timestamp.Before(snapshots[i].Timestamp) {
			t.Fatal("snapshots should come back in creation order")
		}
	}
}

func TestSnapshotHasSnapshotForToday(t *testing.T) {
	store, _ := newTestStore(t)

	ok, err := store.HasSnapshotForToday(testProduct)
	if err != nil || ok {
		t.Fatalf("empty store should report no snapshot for today (ok=%v err=%v)", ok, err)
	}

	if _, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-01", 70), time.Now().UTC()); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	ok, err = store.HasSnapshotForToday(testProduct)
	if err != nil {
		t.Fatalf("has snapshot for today: %v", err)
	}
	if !ok {
		t.Fatal("snapshot taken now should count as today's")
	}
}

func TestSnapshotPriceTrends(t *testing.T) {
	store, _ := newTestStore(t)

	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	prices := []float64{70, 72, 80}
	for i, p := range prices {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		if _, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-25", p), ts); err != nil {
			t.Fatalf("save snapshot: %v", err)
		}
	}

	points, err := store.PriceTrends(testProduct, "2025-12-25")
	if err != nil {
		t.Fatalf("price trends: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("want 3 trend points, got %d", len(points))
	}
	for i, p := range points {
		if p.PriceAdult == nil || p.PriceAdult.InexactFloat64() != prices[i] {
			t.Fatalf("point %d: want %g, got %v", i, prices[i], p.PriceAdult)
		}
		if p.SourceRange != "LOW" {
			t.Fatalf("source range should pass through, got %q", p.SourceRange)
		}
	}

	other, err := store.PriceTrends(testProduct, "2026-01-01")
	if err != nil {
		t.Fatalf("price trends: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("date absent from all snapshots should yield no points, got %d", len(other))
	}
}

func TestSnapshotCleanOldSnapshots(t *testing.T) {
	store, fs := newTestStore(t)

	old := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	oldPath, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-01", 70), old)
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := fs.Chtimes(oldPath, old, old); err != nil {
		t.Fatalf("age snapshot file: %v", err)
	}

	freshPath, err := store.SaveSnapshot(testProduct, rawCalendar("2025-12-01", 75), time.Now().UTC())
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	deleted, err := store.CleanOldSnapshots(90)
	if err != nil {
		t.Fatalf("clean old snapshots: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("want 1 deleted snapshot, got %d", deleted)
	}

	if _, err := fs.Stat(oldPath); err == nil {
		t.Fatal("old snapshot should be gone")
	}
	if _, err := fs.Stat(freshPath); err != nil {
		t.Fatalf("fresh snapshot should survive: %v", err)
	}
}

func TestSnapshotSaveMappedCSV(t *testing.T) {
	store, fs := newTestStore(t)

	lowPeak := tiers.TierLowPeak
	adult := decimalFrom(t, "70")
	records := []tiers.DayRecord{
		{
			Date:        time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			PriceAdult:  &adult,
			SourceRange: "LOW",
			Tier:        &lowPeak,
		},
		{Date: time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)},
	}

	path, err := store.SaveMappedCSV(testProduct, records, time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("save mapped csv: %v", err)
	}
	if filepath.Ext(path) != ".csv" {
		t.Fatalf("mapped data should be a csv, got %s", path)
	}

	payload, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read mapped csv: %v", err)
	}
	content := string(payload)
	if !strings.Contains(content, "2025-12-01,70,,LOW,,Low Peak") {
		t.Fatalf("csv row mismatch:\n%s", content)
	}
	if !strings.Contains(content, "2025-12-02,,,,,") {
		t.Fatalf("empty day should serialise as blanks:\n%s", content)
	}

	// Mapped CSVs must not be picked up as snapshots.
	latest, err := store.LoadLatestSnapshot(testProduct)
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest != nil {
		t.Fatal("csv file must not be treated as a snapshot")
	}
}
