// Package analytics turns raw daily price records into baseline normalized
// percent change series and per-ticker summary statistics.
// All functions are pure: they take an explicit as-of date and perform no I/O.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Round2 rounds to 2 decimal places, halves away from zero. Values that
// round to zero come back as positive zero.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// PercentChange returns (value - base) / base * 100, unrounded.
// ok is false when base is zero.
func PercentChange(value, base float64) (float64, bool) {
	if base == 0 {
		return 0, false
	}
	return (value - base) / base * 100, true
}

// NewDateRange returns the inclusive window [asOf - daysBack, asOf]
func NewDateRange(asOf models.Date, daysBack int) (models.DateRange, error) {
	if daysBack < 0 {
		return models.DateRange{}, fmt.Errorf("days back must not be negative, got %d", daysBack)
	}
	return models.DateRange{Start: asOf.AddDays(-daysBack), End: asOf}, nil
}

// filterRange keeps records inside r, first occurrence of each (ticker, date) wins
func filterRange(records []models.PriceRecord, r models.DateRange, keep func(models.PriceRecord) bool) []models.PriceRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.PriceRecord, 0, len(records))
	for _, rec := range records {
		if !r.Contains(rec.Date) {
			continue
		}
		if keep != nil && !keep(rec) {
			continue
		}
		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// sortByDate orders records chronologically, keeping input order for equal dates
func sortByDate(records []models.PriceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
