package analytics

import (
	"sort"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Normalize aligns records onto one ascending date axis and expresses each
// ticker's close as percent change from its baseline, the close of its
// earliest record inside r.
//
// Every distinct date among the in-range records gets a point, whichever ticker
// it came from. A ticker with no record on a date, or no baseline at all, has a
// nil value there; gaps are neither interpolated nor carried forward.
// Empty tickers or no in-range records yield an empty slice.
func Normalize(records []models.PriceRecord, tickers []string, r models.DateRange) []models.ChartPoint {
	tickers = uniqueTickers(tickers)
	if len(tickers) == 0 {
		return []models.ChartPoint{}
	}

	filtered := filterRange(records, r, nil)
	if len(filtered) == 0 {
		return []models.ChartPoint{}
	}

	baselines := make(map[string]models.PriceRecord, len(tickers))
	closes := make(map[string]float64, len(filtered))
	dates := make(map[models.Date]struct{})
	for _, rec := range filtered {
		closes[rec.Key()] = rec.Close
		dates[rec.Date] = struct{}{}
		if base, ok := baselines[rec.Ticker]; !ok || rec.Date.Before(base.Date) {
			baselines[rec.Ticker] = rec
		}
	}

	axis := make([]models.Date, 0, len(dates))
	for d := range dates {
		axis = append(axis, d)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })

	points := make([]models.ChartPoint, 0, len(axis))
	for _, d := range axis {
		point := models.ChartPoint{Date: d, Values: make(map[string]*float64, len(tickers))}
		for _, ticker := range tickers {
			point.Values[ticker] = nil

			base, ok := baselines[ticker]
			if !ok {
				continue
			}
			price, ok := closes[models.PriceRecord{Ticker: ticker, Date: d}.Key()]
			if !ok {
				continue
			}
			pct, ok := PercentChange(price, base.Close)
			if !ok {
				continue
			}
			v := Round2(pct)
			point.Values[ticker] = &v
		}
		points = append(points, point)
	}

	return points
}

func uniqueTickers(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
