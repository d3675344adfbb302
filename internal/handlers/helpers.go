package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/tickerscope/internal/models"
	"github.com/ternarybob/tickerscope/internal/reports"
)

const maxBodyBytes = 1 << 20

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteReportError maps a report failure to its status code and user message
func WriteReportError(w http.ResponseWriter, err error) error {
	var re *reports.Error
	if !errors.As(err, &re) {
		return WriteError(w, http.StatusInternalServerError, err.Error())
	}
	return WriteJSON(w, ReportErrorStatus(re.Kind), map[string]string{
		"status": "error",
		"error":  re.UserMessage(),
		"kind":   string(re.Kind),
	})
}

// ReportErrorStatus is the HTTP status for a report failure kind
func ReportErrorStatus(kind reports.Kind) int {
	switch kind {
	case reports.KindNoInput:
		return http.StatusBadRequest
	case reports.KindNoDataForSelection:
		return http.StatusNotFound
	case reports.KindInProgress:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// DecodeJSON reads a bounded JSON request body into v
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseAsOf reads the optional as_of query value, falling back to today
func parseAsOf(value string, today func() models.Date) (models.Date, error) {
	if value == "" {
		return today(), nil
	}
	return models.ParseDate(value)
}

// parseDays reads a positive day count, returning def when empty
func parseDays(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	days, err := strconv.Atoi(value)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("days must be a positive integer, got %q", value)
	}
	return days, nil
}

// parseTickers splits a comma separated list and normalizes each symbol
func parseTickers(value string) ([]string, error) {
	var tickers []string
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		ticker, err := models.NormalizeTicker(part)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
