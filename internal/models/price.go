package models

import (
	"encoding/json"
	"sort"
)

// PriceRecord is one daily OHLCV row for a ticker. Only Close feeds the analytics;
// the rest is carried through from the feed. (Ticker, Date) is unique.
type PriceRecord struct {
	Ticker        string  `json:"ticker" yaml:"ticker"`
	Date          Date    `json:"date" yaml:"date"`
	Open          float64 `json:"open_price" yaml:"open_price"`
	High          float64 `json:"high_price" yaml:"high_price"`
	Low           float64 `json:"low_price" yaml:"low_price"`
	Close         float64 `json:"close_price" yaml:"close_price"`
	AdjustedClose float64 `json:"adjusted_close" yaml:"adjusted_close"`
	Volume        int64   `json:"volume" yaml:"volume"`
}

// Key returns the uniqueness key "TICKER|YYYY-MM-DD"
func (r PriceRecord) Key() string {
	return r.Ticker + "|" + r.Date.String()
}

// ChartPoint is one date on the shared chart axis. Values holds the percent change
// per ticker; a nil entry means the ticker has no record on that date.
type ChartPoint struct {
	Date   Date
	Values map[string]*float64
}

// Value returns the ticker's percent change and whether one is present
func (p ChartPoint) Value(ticker string) (float64, bool) {
	v, ok := p.Values[ticker]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// MarshalJSON flattens the point to {"date": "...", "AAPL": 1.5, "MSFT": null}
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Values)+1)
	for ticker, v := range p.Values {
		if v == nil {
			flat[ticker] = nil
			continue
		}
		flat[ticker] = *v
	}
	flat["date"] = p.Date.String()
	return json.Marshal(flat)
}

func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.Values = make(map[string]*float64, len(flat))
	for key, raw := range flat {
		if key == "date" {
			if err := json.Unmarshal(raw, &p.Date); err != nil {
				return err
			}
			continue
		}
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		p.Values[key] = v
	}
	return nil
}

// Tickers returns the point's tickers in sorted order
func (p ChartPoint) Tickers() []string {
	out := make([]string, 0, len(p.Values))
	for ticker := range p.Values {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out
}

// AnalysisSummary holds the scalar statistics of one ticker's percent change
// series over a timeframe. Percentages are rounded to 2 decimals.
type AnalysisSummary struct {
	Ticker        string  `json:"ticker"`
	PeriodDays    int     `json:"period_days"`
	CurrentChange float64 `json:"current_change"`
	PeriodHigh    float64 `json:"period_high"`
	PeriodLow     float64 `json:"period_low"`
	Range         float64 `json:"range"`
}
