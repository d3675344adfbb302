package eodhd

import (
	"github.com/ternarybob/tickerscope/internal/models"
)

// EODData represents a single day's end-of-day price data.
type EODData struct {
	Date          models.Date `json:"date"`
	Open          float64     `json:"open"`
	High          float64     `json:"high"`
	Low           float64     `json:"low"`
	Close         float64     `json:"close"`
	AdjustedClose float64     `json:"adjusted_close"`
	Volume        int64       `json:"volume"`
}

// EODResponse is a slice of EODData.
type EODResponse []EODData

// Records converts the bars to price records for ticker
func (r EODResponse) Records(ticker string) []models.PriceRecord {
	out := make([]models.PriceRecord, 0, len(r))
	for _, bar := range r {
		out = append(out, models.PriceRecord{
			Ticker:        ticker,
			Date:          bar.Date,
			Open:          bar.Open,
			High:          bar.High,
			Low:           bar.Low,
			Close:         bar.Close,
			AdjustedClose: bar.AdjustedClose,
			Volume:        bar.Volume,
		})
	}
	return out
}
