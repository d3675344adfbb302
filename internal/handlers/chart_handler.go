package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/analytics"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
)

// ChartHandler serves the normalized chart series and per-ticker summaries
type ChartHandler struct {
	prices    interfaces.PriceProvider
	selection *models.Selection
	settings  Settings
	logger    arbor.ILogger
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(prices interfaces.PriceProvider, selection *models.Selection, settings Settings, logger arbor.ILogger) *ChartHandler {
	return &ChartHandler{
		prices:    prices,
		selection: selection,
		settings:  settings,
		logger:    logger,
	}
}

type chartResponse struct {
	AsOf    models.Date         `json:"as_of"`
	Range   models.DateRange    `json:"range"`
	Tickers []string            `json:"tickers"`
	Points  []models.ChartPoint `json:"points"`
}

// ChartHandler handles GET /api/chart?days=&tickers=&as_of=
func (h *ChartHandler) ChartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	asOf, err := parseAsOf(query.Get("as_of"), h.settings.Today)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := parseDays(query.Get("days"), h.settings.LookbackDays)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if days > h.settings.LookbackDays {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("days must be at most %d", h.settings.LookbackDays))
		return
	}

	tickers, err := parseTickers(query.Get("tickers"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(tickers) == 0 {
		tickers = h.selection.Tickers()
	}

	window, err := analytics.NewDateRange(asOf, days)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.prices.Load(r.Context(), asOf)
	if err != nil {
		h.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Failed to load prices for chart")
		WriteError(w, http.StatusBadGateway, "price data unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, chartResponse{
		AsOf:    asOf,
		Range:   window,
		Tickers: tickers,
		Points:  analytics.Normalize(records, tickers, window),
	})
}

// SummaryHandler handles GET /api/summary?ticker=&days=&as_of=
func (h *ChartHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	ticker, err := models.NormalizeTicker(query.Get("ticker"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, err := parseAsOf(query.Get("as_of"), h.settings.Today)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := parseDays(query.Get("days"), h.settings.DefaultTimeframe)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.settings.allowed(days) {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("timeframe must be one of %v", h.settings.Timeframes))
		return
	}

	records, err := h.prices.Load(r.Context(), asOf)
	if err != nil {
		h.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Failed to load prices for summary")
		WriteError(w, http.StatusBadGateway, "price data unavailable")
		return
	}

	summary, ok := analytics.Summarize(records, ticker, days, asOf)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("no data for %s in the last %d days", ticker, days))
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
