package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"park-price-tiers/internal/pricing"
	"park-price-tiers/internal/tiers"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	upsertDayRecordSQL = `INSERT INTO day_records (
        product_type,
        record_date,
        price_adult,
        price_child,
        source_range,
        available,
        tier
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    )
    ON CONFLICT (product_type, record_date) DO UPDATE
    SET
        price_adult  = EXCLUDED.price_adult,
        price_child  = EXCLUDED.price_child,
        source_range = EXCLUDED.source_range,
        available    = EXCLUDED.available,
        tier         = EXCLUDED.tier;`

	listDayRecordsSQL = `SELECT
        record_date,
        price_adult,
        price_child,
        source_range,
        available,
        tier
    FROM day_records
    WHERE product_type = $1
      AND record_date >= $2
      AND record_date < $3
    ORDER BY record_date;`

	countDayRecordsSQL = `SELECT COUNT(*) FROM day_records WHERE product_type = $1;`

	insertAlertSQL = `INSERT INTO price_alerts (
        product_type,
        alert_date,
        kind,
        message,
        price,
        tier
    ) VALUES (
        $1,$2,$3,$4,$5,$6
    )
    ON CONFLICT (product_type, alert_date, kind) DO UPDATE
    SET message = EXCLUDED.message,
        price   = EXCLUDED.price,
        tier    = EXCLUDED.tier
    RETURNING id, product_type, alert_date, kind, message, price, tier, created_at;`

	listRecentAlertsSQL = `SELECT
        id,
        product_type,
        alert_date,
        kind,
        message,
        price,
        tier,
        created_at
    FROM price_alerts
    WHERE product_type = $1
    ORDER BY created_at DESC, alert_date DESC
    LIMIT $2;`

	deleteAlertsBeforeSQL = `DELETE FROM price_alerts WHERE created_at < $1;`
)

// DayRecordStore defines operations for mapped day record persistence.
type DayRecordStore interface {
	UpsertDayRecords(ctx context.Context, productType string, records []tiers.DayRecord) error
	ListDayRecords(ctx context.Context, productType string, from, to time.Time) ([]tiers.DayRecord, error)
	CountDayRecords(ctx context.Context, productType string) (int64, error)
}

// AlertStore defines operations for alert auditing.
type AlertStore interface {
	InsertAlert(ctx context.Context, alert AlertRecord) (AlertRecord, error)
	ListRecentAlerts(ctx context.Context, productType string, limit int) ([]AlertRecord, error)
	DeleteAlertsBefore(ctx context.Context, olderThan time.Time) (int64, error)
}

// Store aggregates access to day records and alerts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// UpsertDayRecords persists or updates a mapped day record batch.
func (s *Store) UpsertDayRecords(ctx context.Context, productType string, records []tiers.DayRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	for _, r := range records {
		var adult, child interface{}
		if r.PriceAdult != nil {
			adult = r.PriceAdult.String()
		}
		if r.PriceChild != nil {
			child = r.PriceChild.String()
		}

		var tier interface{}
		if r.Tier != nil {
			tier = r.Tier.String()
		}

		var available interface{}
		if r.Available != nil {
			available = *r.Available
		}

		if _, execErr := pool.Exec(ctx, upsertDayRecordSQL,
			productType,
			r.Date,
			adult,
			child,
			r.SourceRange,
			available,
			tier,
		); execErr != nil {
			return fmt.Errorf("upsert day record %s: %w", r.Date.Format(pricing.DateLayout), execErr)
		}
	}
	return nil
}

// ListDayRecords lists mapped records for a product within a date window.
func (s *Store) ListDayRecords(ctx context.Context, productType string, from, to time.Time) ([]tiers.DayRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listDayRecordsSQL, productType, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list day records: %w", queryErr)
	}
	defer rows.Close()

	records := make([]tiers.DayRecord, 0)
	for rows.Next() {
		record, scanErr := scanDayRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

// CountDayRecords counts stored records for a product.
func (s *Store) CountDayRecords(ctx context.Context, productType string) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countDayRecordsSQL, productType).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count day records: %w", scanErr)
	}
	return count, nil
}

// InsertAlert persists an alert emission.
func (s *Store) InsertAlert(ctx context.Context, alert AlertRecord) (AlertRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return AlertRecord{}, err
	}

	var price interface{}
	if alert.Price != nil {
		price = alert.Price.String()
	}
	var tier interface{}
	if alert.Tier != nil {
		tier = *alert.Tier
	}

	row := pool.QueryRow(ctx, insertAlertSQL,
		alert.ProductType,
		alert.Date,
		alert.Kind,
		alert.Message,
		price,
		tier,
	)

	rec, scanErr := scanAlertRecord(row)
	if scanErr != nil {
		return AlertRecord{}, fmt.Errorf("insert alert: %w", scanErr)
	}
	return rec, nil
}

// ListRecentAlerts lists the most recent alerts for a product.
func (s *Store) ListRecentAlerts(ctx context.Context, productType string, limit int) ([]AlertRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentAlertsSQL, productType, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent alerts: %w", queryErr)
	}
	defer rows.Close()

	alerts := make([]AlertRecord, 0, limit)
	for rows.Next() {
		rec, scanErr := scanAlertRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		alerts = append(alerts, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return alerts, nil
}

// DeleteAlertsBefore deletes historical alerts and reports how many rows went.
func (s *Store) DeleteAlertsBefore(ctx context.Context, olderThan time.Time) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	tag, execErr := pool.Exec(ctx, deleteAlertsBeforeSQL, olderThan)
	if execErr != nil {
		return 0, fmt.Errorf("delete alerts before: %w", execErr)
	}
	return tag.RowsAffected(), nil
}

func scanDayRecord(rows pgx.Rows) (tiers.DayRecord, error) {
	var (
		date      time.Time
		adultStr  sql.NullString
		childStr  sql.NullString
		rangeStr  sql.NullString
		available sql.NullBool
		tierStr   sql.NullString
	)

	if err := rows.Scan(&date, &adultStr, &childStr, &rangeStr, &available, &tierStr); err != nil {
		return tiers.DayRecord{}, err
	}

	record := tiers.DayRecord{Date: date}

	if adultStr.Valid {
		adult, err := decimal.NewFromString(adultStr.String)
		if err != nil {
			return tiers.DayRecord{}, fmt.Errorf("parse adult price: %w", err)
		}
		record.PriceAdult = &adult
	}
	if childStr.Valid {
		child, err := decimal.NewFromString(childStr.String)
		if err != nil {
			return tiers.DayRecord{}, fmt.Errorf("parse child price: %w", err)
		}
		record.PriceChild = &child
	}
	if rangeStr.Valid {
		record.SourceRange = rangeStr.String
	}
	if available.Valid {
		value := available.Bool
		record.Available = &value
	}
	if tierStr.Valid {
		tier, err := tiers.ParsePriceTier(tierStr.String)
		if err != nil {
			return tiers.DayRecord{}, fmt.Errorf("parse tier: %w", err)
		}
		record.Tier = &tier
	}

	return record, nil
}

func scanAlertRecord(row pgx.Row) (AlertRecord, error) {
	var (
		rec      AlertRecord
		priceStr sql.NullString
		tierStr  sql.NullString
	)

	if err := row.Scan(
		&rec.ID,
		&rec.ProductType,
		&rec.Date,
		&rec.Kind,
		&rec.Message,
		&priceStr,
		&tierStr,
		&rec.CreatedAt,
	); err != nil {
		return AlertRecord{}, err
	}

	if priceStr.Valid {
		price, err := decimal.NewFromString(priceStr.String)
		if err != nil {
			return AlertRecord{}, fmt.Errorf("parse alert price: %w", err)
		}
		rec.Price = &price
	}
	if tierStr.Valid {
		tier := tierStr.String
		rec.Tier = &tier
	}

	return rec, nil
}
