package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"park-price-tiers/internal/pricing"
	"park-price-tiers/internal/tiers"
)

const snapshotTimeLayout = "20060102_150405"

// SnapshotStore persists raw calendar responses and mapped tables as files
// under a data directory, one snapshot per fetch. Reads of nonexistent
// snapshots return absence, not errors. File I/O is plain and synchronous.
type SnapshotStore struct {
	fs      afero.Fs
	dataDir string
	logger  zerolog.Logger
}

// NewSnapshotStore opens (and creates if needed) the snapshot directory.
func NewSnapshotStore(fs afero.Fs, dataDir string, logger zerolog.Logger) (*SnapshotStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dataDir == "" {
		dataDir = "data"
	}
	if err := fs.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	return &SnapshotStore{
		fs:      fs,
		dataDir: dataDir,
		logger:  logger.With().Str("component", "snapshot_store").Str("dir", dataDir).Logger(),
	}, nil
}

// SaveSnapshot writes an immutable snapshot record and returns its path.
// A zero timestamp means now.
func (s *SnapshotStore) SaveSnapshot(productType string, raw json.RawMessage, timestamp time.Time) (string, error) {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	snapshot := Snapshot{
		Timestamp:   timestamp,
		ProductType: productType,
		Data:        raw,
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(s.dataDir, fmt.Sprintf("%s_%s.json", productType, timestamp.Format(snapshotTimeLayout)))
	if err := afero.WriteFile(s.fs, path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("saved snapshot")
	return path, nil
}

// snapshotNames lists the snapshot file names for a product, ascending by
// name. The embedded timestamp makes name order creation order.
func (s *SnapshotStore) snapshotNames(productType string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var names []string
	prefix := productType + "_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *SnapshotStore) readSnapshot(name string) (Snapshot, error) {
	payload, err := afero.ReadFile(s.fs, filepath.Join(s.dataDir, name))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return snapshot, nil
}

// LoadLatestSnapshot returns the most recent snapshot for a product, or nil
// when none exists.
func (s *SnapshotStore) LoadLatestSnapshot(productType string) (*Snapshot, error) {
	names, err := s.snapshotNames(productType)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		s.logger.Warn().Str("product", productType).Msg("no snapshots found")
		return nil, nil
	}

	snapshot, err := s.readSnapshot(names[len(names)-1])
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// LoadAllSnapshots returns every snapshot for a product in creation order.
func (s *SnapshotStore) LoadAllSnapshots(productType string) ([]Snapshot, error) {
	names, err := s.snapshotNames(productType)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(names))
	for _, name := range names {
		snapshot, err := s.readSnapshot(name)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	s.logger.Info().Str("product", productType).Int("count", len(snapshots)).Msg("loaded snapshots")
	return snapshots, nil
}

// HasSnapshotForToday reports whether a snapshot was already taken today
// (UTC), judged by the timestamp embedded in the file name.
func (s *SnapshotStore) HasSnapshotForToday(productType string) (bool, error) {
	names, err := s.snapshotNames(productType)
	if err != nil {
		return false, err
	}

	today := time.Now().UTC().Format("20060102")
	prefix := productType + "_"
	for _, name := range names {
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		if strings.HasPrefix(stamp, today) {
			return true, nil
		}
	}
	return false, nil
}

// PriceTrends extracts one calendar date's pricing across all snapshots,
// ordered by snapshot timestamp.
func (s *SnapshotStore) PriceTrends(productType, date string) ([]TrendPoint, error) {
	snapshots, err := s.LoadAllSnapshots(productType)
	if err != nil {
		return nil, err
	}

	var points []TrendPoint
	for _, snapshot := range snapshots {
		cal, err := pricing.ParseCalendar(snapshot.Data)
		if err != nil {
			s.logger.Warn().Err(err).Time("snapshot", snapshot.Timestamp).Msg("skipping undecodable snapshot")
			continue
		}
		for _, day := range cal.Calendar {
			if day.Date != date {
				continue
			}
			if product, ok := day.Products[productType]; ok {
				points = append(points, TrendPoint{
					Timestamp:   snapshot.Timestamp,
					PriceAdult:  product.PriceAdult,
					PriceChild:  product.PriceChild,
					SourceRange: product.Range,
				})
			}
			break
		}
	}

	s.logger.Info().Str("date", date).Int("points", len(points)).Msg("extracted price trend")
	return points, nil
}

// CleanOldSnapshots deletes snapshot files whose modification time is older
// than the retention window. Returns the number of deleted files.
func (s *SnapshotStore) CleanOldSnapshots(retentionDays int) (int, error) {
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	entries, err := afero.ReadDir(s.fs, s.dataDir)
	if err != nil {
		return 0, fmt.Errorf("read snapshot directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if entry.ModTime().Before(cutoff) {
			if err := s.fs.Remove(filepath.Join(s.dataDir, entry.Name())); err != nil {
				return deleted, fmt.Errorf("remove old snapshot %s: %w", entry.Name(), err)
			}
			deleted++
		}
	}

	s.logger.Info().Int("deleted", deleted).Int("retention_days", retentionDays).Msg("cleaned old snapshots")
	return deleted, nil
}

// SaveMappedCSV writes the mapped day records as a CSV alongside the raw
// snapshot. A zero timestamp means now.
func (s *SnapshotStore) SaveMappedCSV(productType string, records []tiers.DayRecord, timestamp time.Time) (string, error) {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	path := filepath.Join(s.dataDir, fmt.Sprintf("%s_mapped_%s.csv", productType, timestamp.Format(snapshotTimeLayout)))
	file, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("create mapped csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "price_adult", "price_child", "source_range", "available", "tier"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, r := range records {
		row := []string{
			r.Date.Format(pricing.DateLayout),
			decimalString(r.PriceAdult),
			decimalString(r.PriceChild),
			r.SourceRange,
			boolString(r.Available),
			tierString(r.Tier),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	if err := writer.Error(); err != nil {
		return "", err
	}

	s.logger.Info().Str("path", path).Int("rows", len(records)).Msg("saved mapped data")
	return path, nil
}
