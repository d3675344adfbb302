package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/models"
)

func newTestStorage(t *testing.T) *PriceStorage {
	t.Helper()
	logger := arbor.NewNoOpLogger()
	db, err := NewInMemoryBadgerDB(logger)
	require.NoError(t, err)
	s := NewPriceStorage(db, logger).(*PriceStorage)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(ticker, date string, closePrice float64) models.PriceRecord {
	return models.PriceRecord{Ticker: ticker, Date: models.MustParseDate(date), Close: closePrice}
}

func TestPriceStorage_SaveAndQuery(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, []models.PriceRecord{
		record("MSFT", "2024-01-03", 310),
		record("AAPL", "2024-01-02", 100),
		record("AAPL", "2024-01-03", 105),
		record("AAPL", "2024-01-10", 120),
	}))

	r := models.DateRange{Start: models.MustParseDate("2024-01-01"), End: models.MustParseDate("2024-01-05")}

	all, err := s.Records(ctx, nil, r)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-01-02", all[0].Date.String())
	assert.Equal(t, "AAPL", all[1].Ticker)
	assert.Equal(t, "MSFT", all[2].Ticker)

	apple, err := s.Records(ctx, []string{"AAPL"}, r)
	require.NoError(t, err)
	require.Len(t, apple, 2)
	assert.Equal(t, 105.0, apple[1].Close)
}

func TestPriceStorage_SaveReplacesSameKey(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, []models.PriceRecord{record("AAPL", "2024-01-02", 100)}))
	require.NoError(t, s.SaveRecords(ctx, []models.PriceRecord{record("AAPL", "2024-01-02", 101)}))

	day := models.MustParseDate("2024-01-02")
	got, err := s.Records(ctx, []string{"AAPL"}, models.DateRange{Start: day, End: day})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 101.0, got[0].Close)
}

func TestPriceStorage_RefreshMarker(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	window := models.DateRange{Start: models.MustParseDate("2024-01-01"), End: models.MustParseDate("2024-01-31")}

	ok, err := s.IsRefreshed(ctx, window)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.MarkRefreshed(ctx, window))

	ok, err = s.IsRefreshed(ctx, window)
	require.NoError(t, err)
	assert.True(t, ok)

	other := models.DateRange{Start: window.Start, End: models.MustParseDate("2024-02-01")}
	ok, err = s.IsRefreshed(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewBadgerDB_PersistsAcrossReopen(t *testing.T) {
	logger := arbor.NewNoOpLogger()
	cfg := &common.BadgerConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "db")}
	ctx := context.Background()

	db, err := NewBadgerDB(logger, cfg)
	require.NoError(t, err)
	s := NewPriceStorage(db, logger)
	require.NoError(t, s.SaveRecords(ctx, []models.PriceRecord{record("TSLA", "2024-03-01", 200)}))
	require.NoError(t, s.Close())

	db, err = NewBadgerDB(logger, cfg)
	require.NoError(t, err)
	s = NewPriceStorage(db, logger)
	defer s.Close()

	day := models.MustParseDate("2024-03-01")
	got, err := s.Records(ctx, nil, models.DateRange{Start: day, End: day})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 200.0, got[0].Close)

	_, err = NewBadgerDB(logger, &common.BadgerConfig{})
	assert.Error(t, err)
}
