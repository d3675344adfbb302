package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/app"
	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/models"
	"github.com/ternarybob/tickerscope/internal/prices"
)

const reportText = `[{"ticker":"AAPL","estimated_increasing":true,"estimated_change_percentage":3.5,` +
	`"confidence_level":"High","timeframe_days":7,"short_summary":"momentum","key_factors":["a","b","c"],` +
	`"recommendation":"Buy","market_sentiment":"Bullish","last_update":"2024-01-31"}]`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, prices.WriteFile(path, []models.PriceRecord{
		{Ticker: "AAPL", Date: models.MustParseDate("2024-01-26"), Close: 100},
		{Ticker: "AAPL", Date: models.MustParseDate("2024-01-30"), Close: 104},
	}))

	edge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": reportText}}}}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(edge.Close)

	cfg := common.NewDefaultConfig()
	cfg.Prices.Source = "file"
	cfg.Prices.File.Path = path
	cfg.Prices.RefreshSchedule = ""
	cfg.Storage.Badger.Enabled = false
	cfg.Edge.URL = edge.URL
	cfg.Edge.RateLimit = ""

	application, err := app.New(context.Background(), cfg, arbor.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	return New(application)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_ReportFlow(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/selection", `{"ticker":"aapl"}`).Code)

	rec := do(t, s, http.MethodGet, "/api/chart?days=7&as_of=2024-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"AAPL":4`)

	rec = do(t, s, http.MethodGet, "/api/summary?ticker=AAPL&days=7&as_of=2024-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_change":4`)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/reports/latest", "").Code)

	rec = do(t, s, http.MethodPost, "/api/reports", `{"timeframe_days":7,"as_of":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/reports/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var set models.ReportSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.Reports, 1)
	assert.Equal(t, models.RecommendationBuy, set.Reports[0].Recommendation)

	// Changing the selection drops the previous reports
	assert.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/selection", `{"ticker":"MSFT"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/reports/latest", "").Code)

	rec = do(t, s, http.MethodPost, "/api/prices/refresh?as_of=2024-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records":2`)
}

func TestServer_RoutingAndMiddleware(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/selection", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, s, http.MethodOptions, "/api/reports", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	panicky := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec = httptest.NewRecorder()
	panicky.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
