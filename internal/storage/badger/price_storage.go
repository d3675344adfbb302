package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
)

// priceRow is the stored form of a PriceRecord. DateKey is the ISO date so
// range queries compare lexically.
type priceRow struct {
	Key     string `badgerhold:"key"`
	Ticker  string `badgerholdIndex:"Ticker"`
	DateKey string
	Record  models.PriceRecord
}

// refreshMarker records that a date window was fetched from upstream
type refreshMarker struct {
	Window      string `badgerhold:"key"`
	RefreshedAt time.Time
	Records     int
}

// PriceStorage implements interfaces.PriceStore on badgerhold
type PriceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPriceStorage creates a price store backed by db
func NewPriceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PriceStore {
	return &PriceStorage{db: db, logger: logger}
}

// SaveRecords upserts records keyed by (ticker, date); a later save replaces an earlier one
func (s *PriceStorage) SaveRecords(ctx context.Context, records []models.PriceRecord) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := priceRow{
			Key:     record.Key(),
			Ticker:  record.Ticker,
			DateKey: record.Date.String(),
			Record:  record,
		}
		if err := s.db.Store().Upsert(row.Key, &row); err != nil {
			return fmt.Errorf("failed to save price record %s: %w", row.Key, err)
		}
	}

	s.logger.Debug().Int("records", len(records)).Msg("Saved price records")
	return nil
}

// Records returns stored records within r, for tickers when given, sorted by date
func (s *PriceStorage) Records(ctx context.Context, tickers []string, r models.DateRange) ([]models.PriceRecord, error) {
	query := badgerhold.Where("DateKey").Ge(r.Start.String()).And("DateKey").Le(r.End.String())
	if len(tickers) > 0 {
		values := make([]interface{}, len(tickers))
		for i, t := range tickers {
			values[i] = t
		}
		query = query.And("Ticker").In(values...)
	}
	query = query.SortBy("DateKey", "Ticker")

	var rows []priceRow
	if err := s.db.Store().Find(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to query price records: %w", err)
	}

	records := make([]models.PriceRecord, len(rows))
	for i, row := range rows {
		records[i] = row.Record
	}
	return records, nil
}

// MarkRefreshed records that window has been fetched
func (s *PriceStorage) MarkRefreshed(ctx context.Context, window models.DateRange) error {
	count, err := s.db.Store().Count(&priceRow{},
		badgerhold.Where("DateKey").Ge(window.Start.String()).And("DateKey").Le(window.End.String()))
	if err != nil {
		return fmt.Errorf("failed to count price records: %w", err)
	}

	marker := refreshMarker{
		Window:      window.String(),
		RefreshedAt: time.Now().UTC(),
		Records:     int(count),
	}
	if err := s.db.Store().Upsert(marker.Window, &marker); err != nil {
		return fmt.Errorf("failed to mark window refreshed: %w", err)
	}
	return nil
}

// IsRefreshed reports whether window was fetched before
func (s *PriceStorage) IsRefreshed(ctx context.Context, window models.DateRange) (bool, error) {
	var marker refreshMarker
	err := s.db.Store().Get(window.String(), &marker)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read refresh marker: %w", err)
	}
	return true, nil
}

// Close closes the underlying database
func (s *PriceStorage) Close() error {
	return s.db.Close()
}
