package reports

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tickerscope/internal/models"
)

func TestBuildRequest(t *testing.T) {
	summaries := []models.AnalysisSummary{
		{Ticker: "AAPL", PeriodDays: 14, CurrentChange: 3.21, PeriodHigh: 4.5, PeriodLow: -1.25, Range: 5.75},
		{Ticker: "TSLA", PeriodDays: 14, CurrentChange: -7.1, PeriodHigh: 0, PeriodLow: -9.4, Range: 9.4},
	}
	asOf := models.MustParseDate("2024-02-15")

	payload, err := BuildRequest(summaries, 14, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, payload.ExpectedCount)
	assert.Equal(t, 14, payload.TimeframeDays)
	assert.Equal(t, asOf, payload.AsOf)
	assert.Equal(t, summaries, payload.Summaries)

	assert.Contains(t, payload.SystemInstruction, "exactly 2 objects")
	assert.Contains(t, payload.SystemInstruction, "timeframe_days must be 14")
	assert.Contains(t, payload.SystemInstruction, `"Strong Sell" | "Sell" | "Hold" | "Buy" | "Strong Buy"`)
	assert.Contains(t, payload.SystemInstruction, "3-4 items")

	assert.Contains(t, payload.Prompt, "next 14 days")
	assert.Contains(t, payload.Prompt, "Current date: 2024-02-15")
	assert.Contains(t, payload.Prompt, `"ticker": "AAPL"`)
	assert.Contains(t, payload.Prompt, `"current_change": 3.21`)
	assert.True(t, strings.Index(payload.Prompt, "AAPL") < strings.Index(payload.Prompt, "TSLA"))
}

func TestBuildRequest_WireFields(t *testing.T) {
	payload, err := BuildRequest([]models.AnalysisSummary{{Ticker: "AAPL", PeriodDays: 7}}, 7, models.MustParseDate("2024-01-31"))
	require.NoError(t, err)

	b, err := json.Marshal(payload)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(b, &wire))
	assert.Len(t, wire, 2)
	assert.Contains(t, wire, "systemInstruction")
	assert.Contains(t, wire, "prompt")
}

func TestBuildRequest_Errors(t *testing.T) {
	_, err := BuildRequest(nil, 7, models.MustParseDate("2024-01-31"))
	assert.True(t, errors.Is(err, ErrNoInput))

	_, err = BuildRequest([]models.AnalysisSummary{{Ticker: "AAPL"}}, 0, models.MustParseDate("2024-01-31"))
	assert.True(t, errors.Is(err, ErrNoInput))
}

func TestResponseSchema(t *testing.T) {
	schema := ResponseSchema(3)
	assert.Equal(t, "array", schema["type"])
	assert.Equal(t, 3, schema["minItems"])
	assert.Equal(t, 3, schema["maxItems"])

	items := schema["items"].(map[string]any)
	assert.ElementsMatch(t, models.StockReportFields, items["required"])

	props := items["properties"].(map[string]any)
	assert.Len(t, props, len(models.StockReportFields))
	confidence := props["confidence_level"].(map[string]any)
	assert.Equal(t, []string{"Low", "Medium", "High"}, confidence["enum"])
}
