package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Invalidator drops results derived from the previous selection
type Invalidator interface {
	Invalidate()
}

// TickerHandler serves the popular ticker list and the user's selection
type TickerHandler struct {
	selection   *models.Selection
	popular     []string
	invalidator Invalidator
	logger      arbor.ILogger
}

// NewTickerHandler creates a new TickerHandler
func NewTickerHandler(selection *models.Selection, popular []string, invalidator Invalidator, logger arbor.ILogger) *TickerHandler {
	return &TickerHandler{
		selection:   selection,
		popular:     append([]string(nil), popular...),
		invalidator: invalidator,
		logger:      logger,
	}
}

type selectionResponse struct {
	Tickers  []string `json:"tickers"`
	Capacity int      `json:"capacity"`
}

type addTickerRequest struct {
	Ticker string `json:"ticker"`
}

// PopularHandler handles GET /api/tickers/popular
func (h *TickerHandler) PopularHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]string{"tickers": h.popular})
}

// GetSelectionHandler handles GET /api/selection
func (h *TickerHandler) GetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	h.writeSelection(w, http.StatusOK)
}

// AddTickerHandler handles POST /api/selection
func (h *TickerHandler) AddTickerHandler(w http.ResponseWriter, r *http.Request) {
	var req addTickerRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ticker, err := h.selection.Add(req.Ticker)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrDuplicateTicker) || errors.Is(err, models.ErrSelectionFull) {
			status = http.StatusConflict
		}
		WriteError(w, status, err.Error())
		return
	}

	h.invalidator.Invalidate()
	h.logger.Info().Str("ticker", ticker).Strs("selection", h.selection.Tickers()).Msg("Ticker added")
	h.writeSelection(w, http.StatusCreated)
}

// RemoveTickerHandler handles DELETE /api/selection?ticker=X; without a ticker the selection is cleared
func (h *TickerHandler) RemoveTickerHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ticker")
	if raw == "" {
		h.selection.Clear()
		h.invalidator.Invalidate()
		h.logger.Info().Msg("Selection cleared")
		h.writeSelection(w, http.StatusOK)
		return
	}

	if !h.selection.Remove(raw) {
		WriteError(w, http.StatusNotFound, "ticker not in selection")
		return
	}

	h.invalidator.Invalidate()
	h.logger.Info().Str("ticker", raw).Msg("Ticker removed")
	h.writeSelection(w, http.StatusOK)
}

func (h *TickerHandler) writeSelection(w http.ResponseWriter, status int) {
	tickers := h.selection.Tickers()
	if tickers == nil {
		tickers = []string{}
	}
	WriteJSON(w, status, selectionResponse{Tickers: tickers, Capacity: h.selection.Capacity()})
}
