package analytics

import (
	"github.com/ternarybob/tickerscope/internal/models"
)

// Summarize computes one ticker's statistics over [asOf - timeframeDays, asOf].
// This window is independent of any chart range.
//
// The second return is false when the ticker has no records in the window (or
// a zero baseline); callers skip the ticker rather than fail.
func Summarize(records []models.PriceRecord, ticker string, timeframeDays int, asOf models.Date) (*models.AnalysisSummary, bool) {
	window, err := NewDateRange(asOf, timeframeDays)
	if err != nil {
		return nil, false
	}

	series := filterRange(records, window, func(rec models.PriceRecord) bool {
		return rec.Ticker == ticker
	})
	if len(series) == 0 {
		return nil, false
	}
	sortByDate(series)

	base := series[0].Close
	if base == 0 {
		return nil, false
	}

	high, low := 0.0, 0.0
	var current float64
	for i, rec := range series {
		pct, _ := PercentChange(rec.Close, base)
		if i == 0 || pct > high {
			high = pct
		}
		if i == 0 || pct < low {
			low = pct
		}
		current = pct
	}

	return &models.AnalysisSummary{
		Ticker:        ticker,
		PeriodDays:    timeframeDays,
		CurrentChange: Round2(current),
		PeriodHigh:    Round2(high),
		PeriodLow:     Round2(low),
		Range:         Round2(high - low),
	}, true
}

// SummarizeAll runs Summarize for each ticker in order, skipping absent ones
func SummarizeAll(records []models.PriceRecord, tickers []string, timeframeDays int, asOf models.Date) []models.AnalysisSummary {
	out := make([]models.AnalysisSummary, 0, len(tickers))
	for _, ticker := range tickers {
		if s, ok := Summarize(records, ticker, timeframeDays, asOf); ok {
			out = append(out, *s)
		}
	}
	return out
}
