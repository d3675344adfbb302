// Package export renders a generated report set for download: markdown,
// standalone HTML or PDF.
package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Format names an export encoding
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts the format query value; empty means JSON
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case "md", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, markdown, html or pdf)", value)
	}
}

// ContentType is the response media type for f
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Title is the document title for a report set
func Title(set *models.ReportSet) string {
	return fmt.Sprintf("Forecasts for the next %d days (as of %s)", set.TimeframeDays, set.AsOf)
}

// Markdown renders the set with one section per ticker, in report order
func Markdown(set *models.ReportSet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", Title(set)))

	if len(set.Reports) == 0 {
		sb.WriteString("No reports.\n")
		return sb.String()
	}

	sb.WriteString("| Ticker | Recommendation | Change | Confidence | Sentiment |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, r := range set.Reports {
		sb.WriteString(fmt.Sprintf("| %s | %s | %+.2f%% | %s | %s |\n",
			r.Ticker, r.Recommendation, r.EstimatedChangePercentage, r.ConfidenceLevel, r.MarketSentiment))
	}
	sb.WriteString("\n")

	for _, r := range set.Reports {
		sb.WriteString(fmt.Sprintf("### %s: %s (%+.2f%%, %s)\n", r.Ticker, r.Recommendation, r.EstimatedChangePercentage, direction(r)))
		sb.WriteString(fmt.Sprintf("**Confidence:** %s | **Sentiment:** %s\n\n", r.ConfidenceLevel, r.MarketSentiment))
		sb.WriteString(r.ShortSummary)
		sb.WriteString("\n\n")
		for _, f := range r.KeyFactors {
			sb.WriteString(fmt.Sprintf("- %s\n", f))
		}
		sb.WriteString(fmt.Sprintf("\n_Updated %s_\n\n---\n\n", r.LastUpdate))
	}
	return sb.String()
}

func direction(r models.StockReport) string {
	if r.EstimatedIncreasing {
		return "up"
	}
	return "down"
}
