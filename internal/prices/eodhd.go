package prices

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/eodhd"
	"github.com/ternarybob/tickerscope/internal/models"
)

// EODHDSource fetches daily bars per symbol from EODHD. With no tickers
// requested it fetches the configured universe.
type EODHDSource struct {
	client   *eodhd.Client
	universe []string
	logger   arbor.ILogger
}

// NewEODHDSource creates an EODHD price source
func NewEODHDSource(client *eodhd.Client, universe []string, logger arbor.ILogger) *EODHDSource {
	return &EODHDSource{
		client:   client,
		universe: append([]string(nil), universe...),
		logger:   logger,
	}
}

func (s *EODHDSource) Name() string {
	return "eodhd"
}

// Fetch requests each symbol in turn. Records carry the bare code as ticker.
func (s *EODHDSource) Fetch(ctx context.Context, tickers []string, r models.DateRange) ([]models.PriceRecord, error) {
	if len(tickers) == 0 {
		tickers = s.universe
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers to fetch from EODHD")
	}

	var records []models.PriceRecord
	for _, raw := range tickers {
		ticker := common.ParseTicker(raw)
		if ticker.Code == "" {
			continue
		}

		symbol := ticker.EODHDSymbol()
		bars, err := s.client.GetEOD(ctx, symbol,
			eodhd.WithDateRange(r),
			eodhd.WithPeriod("d"),
			eodhd.WithOrder("a"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
		}

		s.logger.Debug().
			Str("symbol", symbol).
			Int("bars", len(bars)).
			Msg("Fetched EOD bars")

		records = append(records, bars.Records(recordTicker(symbol, ticker))...)
	}
	return records, nil
}

// recordTicker maps a fetched EODHD symbol back to the bare code records
// are stored under, so "BRK.B.US" yields "BRK.B".
func recordTicker(symbol string, requested common.Ticker) string {
	if parsed := common.ParseEODHDTicker(symbol); parsed.Code != "" {
		return parsed.Code
	}
	return requested.Code
}
