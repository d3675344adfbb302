package handlers

import (
	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/models"
)

// Settings are the request limits and defaults shared by the API handlers
type Settings struct {
	Timeframes       []int
	DefaultTimeframe int
	LookbackDays     int
	Today            func() models.Date
}

// NewSettings derives handler settings from config; today resolves the as-of
// date when a request does not pin one
func NewSettings(cfg *common.Config, today func() models.Date) Settings {
	return Settings{
		Timeframes:       append([]int(nil), cfg.Reports.Timeframes...),
		DefaultTimeframe: cfg.Reports.DefaultTimeframe,
		LookbackDays:     cfg.Prices.LookbackDays,
		Today:            today,
	}
}

func (s Settings) allowed(days int) bool {
	return containsInt(s.Timeframes, days)
}
