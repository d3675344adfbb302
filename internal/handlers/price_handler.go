package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
)

// PriceHandler exposes a manual reload of the price window
type PriceHandler struct {
	prices   interfaces.PriceProvider
	settings Settings
	logger   arbor.ILogger
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(prices interfaces.PriceProvider, settings Settings, logger arbor.ILogger) *PriceHandler {
	return &PriceHandler{prices: prices, settings: settings, logger: logger}
}

type refreshResponse struct {
	AsOf    models.Date `json:"as_of"`
	Records int         `json:"records"`
}

// RefreshHandler handles POST /api/prices/refresh?as_of=
func (h *PriceHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"), h.settings.Today)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.prices.Refresh(r.Context(), asOf)
	if err != nil {
		h.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Manual price refresh failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.logger.Info().Str("as_of", asOf.String()).Int("records", len(records)).Msg("Price window refreshed on request")
	WriteJSON(w, http.StatusOK, refreshResponse{AsOf: asOf, Records: len(records)})
}
