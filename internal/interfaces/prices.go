package interfaces

import (
	"context"

	"github.com/ternarybob/tickerscope/internal/models"
)

// PriceSource fetches daily price records from an upstream feed.
// Sources may return records outside r or for other tickers; consumers filter.
type PriceSource interface {
	Name() string
	Fetch(ctx context.Context, tickers []string, r models.DateRange) ([]models.PriceRecord, error)
}

// PriceStore caches raw price records locally
type PriceStore interface {
	SaveRecords(ctx context.Context, records []models.PriceRecord) error
	Records(ctx context.Context, tickers []string, r models.DateRange) ([]models.PriceRecord, error)
	MarkRefreshed(ctx context.Context, window models.DateRange) error
	IsRefreshed(ctx context.Context, window models.DateRange) (bool, error)
	Close() error
}

// PriceProvider serves the loaded price window to the analytics layer
type PriceProvider interface {
	Load(ctx context.Context, asOf models.Date) ([]models.PriceRecord, error)
	Refresh(ctx context.Context, asOf models.Date) ([]models.PriceRecord, error)
}
