package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/export"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
	"github.com/ternarybob/tickerscope/internal/reports"
)

// ReportHandler runs report generation for the current selection
type ReportHandler struct {
	generator *reports.Generator
	prices    interfaces.PriceProvider
	selection *models.Selection
	settings  Settings
	logger    arbor.ILogger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(generator *reports.Generator, prices interfaces.PriceProvider, selection *models.Selection, settings Settings, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		generator: generator,
		prices:    prices,
		selection: selection,
		settings:  settings,
		logger:    logger,
	}
}

type generateRequest struct {
	TimeframeDays int    `json:"timeframe_days"`
	AsOf          string `json:"as_of"`
}

// GenerateHandler handles POST /api/reports
func (h *ReportHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req generateRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TimeframeDays == 0 {
		req.TimeframeDays = h.settings.DefaultTimeframe
	}
	if !h.settings.allowed(req.TimeframeDays) {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("timeframe must be one of %v", h.settings.Timeframes))
		return
	}
	asOf, err := parseAsOf(req.AsOf, h.settings.Today)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.prices.Load(r.Context(), asOf)
	if err != nil {
		h.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Failed to load prices for reports")
		WriteError(w, http.StatusBadGateway, "price data unavailable")
		return
	}

	set, err := h.generator.Generate(r.Context(), reports.GenerateInput{
		Tickers:       h.selection.Tickers(),
		Records:       records,
		TimeframeDays: req.TimeframeDays,
		AsOf:          asOf,
	})
	if err != nil {
		WriteReportError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, set)
}

// LatestHandler handles GET /api/reports/latest?format=json|markdown|html|pdf
func (h *ReportHandler) LatestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, ok := h.generator.Latest()
	if !ok {
		WriteError(w, http.StatusNotFound, "no reports generated")
		return
	}

	var body []byte
	switch format {
	case export.FormatJSON:
		WriteJSON(w, http.StatusOK, set)
		return
	case export.FormatMarkdown:
		body = []byte(export.Markdown(set))
	case export.FormatHTML:
		body, err = export.HTML(set)
	case export.FormatPDF:
		body, err = export.PDF(set)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "reports-"+set.AsOf.String()+".pdf"))
	}
	if err != nil {
		h.logger.Error().Err(err).Str("format", string(format)).Msg("Failed to export reports")
		WriteError(w, http.StatusInternalServerError, "failed to export reports")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// StatusHandler handles GET /api/reports/status
func (h *ReportHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.generator.State())
}
