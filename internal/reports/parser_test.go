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

func reportObject(ticker string) map[string]any {
	return map[string]any{
		"ticker":                      ticker,
		"estimated_increasing":        true,
		"estimated_change_percentage": 4.2,
		"confidence_level":            "Medium",
		"timeframe_days":              7,
		"short_summary":               "Steady climb after earnings",
		"key_factors":                 []string{"earnings beat", "sector rotation", "volume pickup"},
		"recommendation":              "Buy",
		"market_sentiment":            "Bullish",
		"last_update":                 "2024-01-31T10:00:00Z",
	}
}

func reportArray(t *testing.T, items ...map[string]any) string {
	t.Helper()
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return string(b)
}

func geminiEnvelope(t *testing.T, text string) models.Envelope {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	require.NoError(t, err)
	return models.Envelope{Provider: models.ProviderEdge, Body: b}
}

func claudeEnvelope(t *testing.T, text string) models.Envelope {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"id":   "msg_01",
		"type": "message",
		"content": []any{
			map[string]any{"type": "text", "text": text},
		},
	})
	require.NoError(t, err)
	return models.Envelope{Provider: models.ProviderClaude, Body: b}
}

func TestParseReports_PlainArray(t *testing.T) {
	text := reportArray(t, reportObject("AAPL"), reportObject("MSFT"))

	reports, err := ParseReports(geminiEnvelope(t, text), 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "AAPL", reports[0].Ticker)
	assert.Equal(t, "MSFT", reports[1].Ticker)
	assert.True(t, reports[0].EstimatedIncreasing)
	assert.Equal(t, 4.2, reports[0].EstimatedChangePercentage)
	assert.Equal(t, models.ConfidenceMedium, reports[0].ConfidenceLevel)
	assert.Equal(t, models.RecommendationBuy, reports[0].Recommendation)
	assert.Equal(t, models.SentimentBullish, reports[0].MarketSentiment)
	assert.Len(t, reports[0].KeyFactors, 3)
}

func TestParseReports_FencedEqualsPlain(t *testing.T) {
	text := reportArray(t, reportObject("AAPL"))

	plain, err := ParseReports(geminiEnvelope(t, text), 1)
	require.NoError(t, err)

	for _, fenced := range []string{
		"```json\n" + text + "\n```",
		"```\n" + text + "\n```",
		"Here you go:\n```JSON\n" + text + "\n```\nGood luck.",
	} {
		got, err := ParseReports(geminiEnvelope(t, fenced), 1)
		require.NoError(t, err, fenced)
		assert.Equal(t, plain, got)
	}
}

func TestParseReports_BackticksInsideUnfencedJSON(t *testing.T) {
	obj := reportObject("AAPL")
	obj["short_summary"] = "Breakout looks like ``` on the chart"
	text := reportArray(t, obj)

	for _, candidate := range []string{text, "\n  " + text + "\n"} {
		reports, err := ParseReports(geminiEnvelope(t, candidate), 1)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "Breakout looks like ``` on the chart", reports[0].ShortSummary)
	}
}

func TestParseReports_ClaudeEnvelope(t *testing.T) {
	reports, err := ParseReports(claudeEnvelope(t, reportArray(t, reportObject("TSLA"))), 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "TSLA", reports[0].Ticker)
}

func TestParseReports_InvalidJSONKeepsRaw(t *testing.T) {
	text := `[{"ticker": "AAPL", ]`

	_, err := ParseReports(geminiEnvelope(t, text), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, text, re.Raw)
}

func TestParseReports_Unextractable(t *testing.T) {
	tests := []string{
		"```json\n[]",
		"```json\n```",
	}
	for _, text := range tests {
		_, err := ParseReports(geminiEnvelope(t, text), 1)
		assert.True(t, errors.Is(err, ErrUnextractableJSON), text)
	}
}

func TestParseReports_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		env  models.Envelope
	}{
		{"empty", models.Envelope{Provider: models.ProviderEdge}},
		{"not json", models.Envelope{Provider: models.ProviderEdge, Body: []byte("<html>")}},
		{"no candidates", models.Envelope{Provider: models.ProviderEdge, Body: []byte(`{"candidates":[]}`)}},
		{"text not a string", models.Envelope{Provider: models.ProviderGemini,
			Body: []byte(`{"candidates":[{"content":{"parts":[{"text":42}]}}]}`)}},
		{"claude without text block", models.Envelope{Provider: models.ProviderClaude,
			Body: []byte(`{"content":[{"type":"tool_use","id":"x"}]}`)}},
		{"empty text", models.Envelope{Provider: models.ProviderEdge,
			Body: []byte(`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`)}},
		{"blank text", models.Envelope{Provider: models.ProviderGemini,
			Body: []byte(`{"candidates":[{"content":{"parts":[{"text":"  \n "}]}}]}`)}},
		{"claude empty text", models.Envelope{Provider: models.ProviderClaude,
			Body: []byte(`{"content":[{"type":"text","text":""}]}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReports(tt.env, 1)
			assert.True(t, errors.Is(err, ErrMalformedEnvelope), "got %v", err)
		})
	}
}

func TestParseReports_SchemaMismatch(t *testing.T) {
	mutate := func(fn func(map[string]any)) string {
		obj := reportObject("AAPL")
		fn(obj)
		return reportArray(t, obj)
	}

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"not an array", `{"ticker":"AAPL"}`, 1},
		{"count mismatch", reportArray(t, reportObject("AAPL"), reportObject("MSFT")), 1},
		{"item not object", `["AAPL"]`, 1},
		{"missing boolean", mutate(func(m map[string]any) { delete(m, "estimated_increasing") }), 1},
		{"null number", mutate(func(m map[string]any) { m["estimated_change_percentage"] = nil }), 1},
		{"bad confidence", mutate(func(m map[string]any) { m["confidence_level"] = "medium" }), 1},
		{"bad recommendation", mutate(func(m map[string]any) { m["recommendation"] = "Accumulate" }), 1},
		{"bad sentiment", mutate(func(m map[string]any) { m["market_sentiment"] = "Mixed" }), 1},
		{"too few factors", mutate(func(m map[string]any) { m["key_factors"] = []string{"a", "b"} }), 1},
		{"too many factors", mutate(func(m map[string]any) { m["key_factors"] = []string{"a", "b", "c", "d", "e"} }), 1},
		{"empty factor", mutate(func(m map[string]any) { m["key_factors"] = []string{"a", "", "c"} }), 1},
		{"bad timestamp", mutate(func(m map[string]any) { m["last_update"] = "yesterday" }), 1},
		{"wrong type", mutate(func(m map[string]any) { m["timeframe_days"] = "seven" }), 1},
		{"zero timeframe", mutate(func(m map[string]any) { m["timeframe_days"] = 0 }), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReports(geminiEnvelope(t, tt.text), tt.expected)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaMismatch), "got %v", err)

			var re *Error
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.text, re.Raw)
		})
	}
}

func TestParseReports_OneBadReportRejectsBatch(t *testing.T) {
	bad := reportObject("MSFT")
	bad["recommendation"] = "Maybe"

	reports, err := ParseReports(geminiEnvelope(t, reportArray(t, reportObject("AAPL"), bad)), 2)
	assert.Nil(t, reports)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "MSFT")
}

func TestParseReports_AcceptsDateOnlyTimestamp(t *testing.T) {
	obj := reportObject("AAPL")
	obj["last_update"] = "2024-01-31"

	_, err := ParseReports(geminiEnvelope(t, reportArray(t, obj)), 1)
	assert.NoError(t, err)
}

func TestIsISOTime(t *testing.T) {
	for _, s := range []string{"2024-01-31", "2024-01-31T10:00:00Z", "2024-01-31T10:00:00.123+02:00", "2024-01-31T10:00"} {
		assert.True(t, IsISOTime(s), s)
	}
	for _, s := range []string{"", "31/01/2024", "now", strings.Repeat("9", 10)} {
		assert.False(t, IsISOTime(s), s)
	}
}

func TestError_UserMessage(t *testing.T) {
	assert.Equal(t, "A report is already being generated", (&Error{Kind: KindInProgress}).UserMessage())
	assert.Contains(t, (&Error{Kind: KindSchemaMismatch}).UserMessage(), "unusable response")
	assert.Equal(t, KindInvalidJSON, KindOf(&Error{Kind: KindInvalidJSON}))
}
