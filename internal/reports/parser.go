package reports

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Answer text paths (gjson syntax) per envelope shape
var envelopeTextPaths = map[models.Provider]string{
	models.ProviderEdge:   "candidates.0.content.parts.0.text",
	models.ProviderGemini: "candidates.0.content.parts.0.text",
	models.ProviderClaude: `content.#(type=="text").text`,
}

const fenceMarker = "```"

// fencePattern captures the interior of the first fenced block, with an optional json tag
var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// openFencePattern matches a line that opens a fenced block
var openFencePattern = regexp.MustCompile("(?m)^[ \\t]*```(?:json|JSON)?[ \\t]*$")

// ParseReports extracts, parses and validates the model's answer.
// It fails closed: any malformed report rejects the whole batch.
func ParseReports(env models.Envelope, expectedCount int) ([]models.StockReport, error) {
	text, err := ExtractText(env)
	if err != nil {
		return nil, err
	}

	candidate, err := extractCandidate(text)
	if err != nil {
		return nil, err
	}

	return decodeReports(candidate, text, expectedCount)
}

// ExtractText pulls the answer text out of a provider envelope
func ExtractText(env models.Envelope) (string, error) {
	if len(env.Body) == 0 {
		return "", newError(KindMalformedEnvelope, "empty response body")
	}
	if !gjson.ValidBytes(env.Body) {
		return "", newError(KindMalformedEnvelope, "response body is not JSON")
	}

	path, ok := envelopeTextPaths[env.Provider]
	if !ok {
		path = envelopeTextPaths[models.ProviderEdge]
	}

	result := gjson.GetBytes(env.Body, path)
	if !result.Exists() || result.Type != gjson.String || strings.TrimSpace(result.String()) == "" {
		return "", newError(KindMalformedEnvelope, "no answer text at %s", path)
	}
	return result.String(), nil
}

// extractCandidate returns the fenced interior when the text is fenced,
// otherwise the whole text
func extractCandidate(text string) (string, error) {
	if !isFenced(text) {
		return text, nil
	}

	match := fencePattern.FindStringSubmatch(text)
	if match == nil || strings.TrimSpace(match[1]) == "" {
		return "", &Error{Kind: KindUnextractableJSON, Message: "fenced block has no closing fence or content", Raw: text}
	}
	return match[1], nil
}

// isFenced reports whether text wraps its answer in a fenced block. Backticks
// inside a bare JSON document do not count.
func isFenced(text string) bool {
	if !strings.Contains(text, fenceMarker) {
		return false
	}
	if openFencePattern.MatchString(text) {
		return true
	}
	trimmed := strings.TrimSpace(text)
	return !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{")
}

func decodeReports(candidate, raw string, expectedCount int) ([]models.StockReport, error) {
	candidate = strings.TrimSpace(candidate)

	var decoded any
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return nil, &Error{Kind: KindInvalidJSON, Raw: raw, Err: err}
	}

	parsed := gjson.Parse(candidate)
	if !parsed.IsArray() {
		return nil, &Error{Kind: KindSchemaMismatch, Message: "expected a JSON array of reports", Raw: raw}
	}

	items := parsed.Array()
	if len(items) != expectedCount {
		return nil, withRaw(newError(KindSchemaMismatch, "expected %d reports, got %d", expectedCount, len(items)), raw)
	}

	reports := make([]models.StockReport, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, withRaw(newError(KindSchemaMismatch, "report %d is not an object", i), raw)
		}
		if err := checkRequiredFields(i, []byte(item.Raw)); err != nil {
			return nil, withRaw(err, raw)
		}

		var report models.StockReport
		if err := json.Unmarshal([]byte(item.Raw), &report); err != nil {
			return nil, &Error{Kind: KindSchemaMismatch, Message: fmt.Sprintf("report %d", i), Raw: raw, Err: err}
		}
		if err := validateReport(i, &report); err != nil {
			return nil, withRaw(err, raw)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func withRaw(err error, raw string) error {
	if re, ok := err.(*Error); ok {
		re.Raw = raw
		return re
	}
	return err
}
