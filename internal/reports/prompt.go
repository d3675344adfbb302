package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/tickerscope/internal/models"
)

// BuildRequest assembles the instruction and data payload for one batch.
// The instruction pins the exact output cardinality and schema; the summaries
// are embedded verbatim as pretty-printed JSON.
func BuildRequest(summaries []models.AnalysisSummary, timeframeDays int, asOf models.Date) (models.RequestPayload, error) {
	if len(summaries) == 0 {
		return models.RequestPayload{}, newError(KindNoInput, "no analysis summaries to send")
	}
	if timeframeDays <= 0 {
		return models.RequestPayload{}, newError(KindNoInput, "timeframe must be positive, got %d", timeframeDays)
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return models.RequestPayload{}, fmt.Errorf("failed to serialize summaries: %w", err)
	}

	count := len(summaries)
	return models.RequestPayload{
		SystemInstruction: systemInstruction(count, timeframeDays),
		Prompt:            userPrompt(string(data), timeframeDays, asOf),
		Schema:            ResponseSchema(count),
		ExpectedCount:     count,
		TimeframeDays:     timeframeDays,
		AsOf:              asOf,
		Summaries:         append([]models.AnalysisSummary(nil), summaries...),
	}, nil
}

func systemInstruction(count, timeframeDays int) string {
	var b strings.Builder

	b.WriteString("You are a sharp, confident equity market analyst. You read short-term price action ")
	b.WriteString("and commit to a clear directional call for each stock you are given.\n\n")

	b.WriteString("CRITICAL RULES:\n")
	fmt.Fprintf(&b, "1. Respond with ONLY a valid JSON array containing exactly %d objects, one per stock, in the order given.\n", count)
	b.WriteString("2. No prose, no markdown, no code fences before or after the array.\n")
	b.WriteString("3. Every object must contain every field of the schema below with the exact field names.\n")
	fmt.Fprintf(&b, "4. timeframe_days must be %d for every object.\n", timeframeDays)
	b.WriteString("5. Enumerated fields must use one of the listed values exactly, including capitalisation.\n\n")

	b.WriteString("CONFIDENCE GUIDE:\n")
	b.WriteString("- High: range above 10% or absolute current change above 5%\n")
	b.WriteString("- Medium: range between 5% and 10%\n")
	b.WriteString("- Low: range below 5%\n\n")

	b.WriteString("RECOMMENDATION GUIDE (by estimated change):\n")
	b.WriteString("- Strong Buy: above +8%\n")
	b.WriteString("- Buy: +3% to +8%\n")
	b.WriteString("- Hold: between -3% and +3%\n")
	b.WriteString("- Sell: -3% to -8%\n")
	b.WriteString("- Strong Sell: below -8%\n\n")

	fmt.Fprintf(&b, "KEY FACTORS: give %d to %d short, specific factors per stock.\n\n", models.MinKeyFactors, models.MaxKeyFactors)

	b.WriteString("RESPONSE SCHEMA (one object per stock):\n")
	b.WriteString(schemaText())
	return b.String()
}

func schemaText() string {
	quote := func(values []string) string {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = `"` + v + `"`
		}
		return strings.Join(quoted, " | ")
	}

	return fmt.Sprintf(`{
  "ticker": string,
  "estimated_increasing": boolean,
  "estimated_change_percentage": number,
  "confidence_level": %s,
  "timeframe_days": integer,
  "short_summary": string,
  "key_factors": string[] (%d-%d items),
  "recommendation": %s,
  "market_sentiment": %s,
  "last_update": string (ISO 8601 date or datetime)
}
`,
		quote(enumStrings(models.ConfidenceLevels)),
		models.MinKeyFactors, models.MaxKeyFactors,
		quote(enumStrings(models.Recommendations)),
		quote(enumStrings(models.MarketSentiments)),
	)
}

func userPrompt(summaryJSON string, timeframeDays int, asOf models.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these stocks for the next %d days based on their recent performance:\n\n", timeframeDays)
	b.WriteString(summaryJSON)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Current date: %s\n", asOf)
	fmt.Fprintf(&b, "Prediction timeframe: %d days\n\n", timeframeDays)
	b.WriteString("Respond with ONLY the JSON array - no other text.")
	return b.String()
}

// ResponseSchema describes an array of exactly count StockReport objects
func ResponseSchema(count int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": count,
		"maxItems": count,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker":                      map[string]any{"type": "string"},
				"estimated_increasing":        map[string]any{"type": "boolean"},
				"estimated_change_percentage": map[string]any{"type": "number"},
				"confidence_level":            map[string]any{"type": "string", "enum": enumStrings(models.ConfidenceLevels)},
				"timeframe_days":              map[string]any{"type": "integer", "minimum": 1},
				"short_summary":               map[string]any{"type": "string"},
				"key_factors": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": models.MinKeyFactors,
					"maxItems": models.MaxKeyFactors,
				},
				"recommendation":   map[string]any{"type": "string", "enum": enumStrings(models.Recommendations)},
				"market_sentiment": map[string]any{"type": "string", "enum": enumStrings(models.MarketSentiments)},
				"last_update":      map[string]any{"type": "string"},
			},
			"required": append([]string(nil), models.StockReportFields...),
		},
	}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
