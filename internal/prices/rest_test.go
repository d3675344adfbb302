package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/models"
)

func testWindow() models.DateRange {
	return models.DateRange{Start: models.MustParseDate("2024-01-01"), End: models.MustParseDate("2024-01-31")}
}

func TestRESTSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/stock_data", r.URL.Path)
		assert.Equal(t, []string{"gte.2024-01-01", "lte.2024-01-31"}, r.URL.Query()["date"])
		assert.Equal(t, "in.(AAPL,MSFT)", r.URL.Query().Get("ticker"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "ticker": "aapl", "date": "2024-01-02", "open_price": 1, "high_price": 2, "low_price": 0.5, "close_price": 1.5, "volume": 1000, "adjusted_close": null, "daily_change": null},
			{"id": 2, "ticker": "MSFT", "date": "2024-01-02T00:00:00+00:00", "close_price": 300, "adjusted_close": 299.5, "volume": 2000},
			{"id": 3, "ticker": "", "date": "2024-01-02", "close_price": 1}
		]`))
	}))
	defer server.Close()

	src, err := NewRESTSource(server.URL+"/rest/v1/", "", "anon-key", arbor.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "rest", src.Name())

	records, err := src.Fetch(context.Background(), []string{"AAPL", "MSFT"}, testWindow())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "AAPL", records[0].Ticker)
	assert.Equal(t, 1.5, records[0].Close)
	assert.Equal(t, int64(1000), records[0].Volume)
	assert.Zero(t, records[0].AdjustedClose)

	assert.Equal(t, "2024-01-02", records[1].Date.String())
	assert.Equal(t, 299.5, records[1].AdjustedClose)
}

func TestRESTSource_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("ticker"))
		http.Error(w, `{"message":"JWT expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	src, err := NewRESTSource(server.URL, "stock_data", "", arbor.NewNoOpLogger())
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), nil, testWindow())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "JWT expired")
}

func TestRESTSource_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	src, err := NewRESTSource(server.URL, "stock_data", "", arbor.NewNoOpLogger())
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), nil, testWindow())
	assert.Error(t, err)
}

func TestNewRESTSource_RequiresURL(t *testing.T) {
	_, err := NewRESTSource("", "stock_data", "", arbor.NewNoOpLogger())
	assert.Error(t, err)
}
