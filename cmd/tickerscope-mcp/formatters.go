package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tickerscope/internal/models"
)

// formatPopular lists the suggested tickers as markdown
func formatPopular(tickers []string) string {
	var sb strings.Builder
	sb.WriteString("## Popular Tickers\n\n")
	if len(tickers) == 0 {
		sb.WriteString("None configured.\n")
		return sb.String()
	}
	for _, t := range tickers {
		sb.WriteString(fmt.Sprintf("- %s\n", t))
	}
	return sb.String()
}

// formatChart renders chart points as a markdown table, one row per date
func formatChart(tickers []string, r models.DateRange, points []models.ChartPoint) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Performance %s (%% change from first close)\n\n", r))

	if len(points) == 0 {
		sb.WriteString("No data in range.\n")
		return sb.String()
	}

	sb.WriteString("| Date | " + strings.Join(tickers, " | ") + " |\n")
	sb.WriteString("|---" + strings.Repeat("|---", len(tickers)) + "|\n")
	for _, p := range points {
		cells := make([]string, len(tickers))
		for i, t := range tickers {
			if v, ok := p.Value(t); ok {
				cells[i] = fmt.Sprintf("%.2f", v)
			} else {
				cells[i] = "-"
			}
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", p.Date, strings.Join(cells, " | ")))
	}
	return sb.String()
}

// formatSummary renders one ticker's statistics
func formatSummary(s *models.AnalysisSummary, asOf models.Date) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s - last %d days to %s\n\n", s.Ticker, s.PeriodDays, asOf))
	sb.WriteString(fmt.Sprintf("**Current change:** %.2f%%\n", s.CurrentChange))
	sb.WriteString(fmt.Sprintf("**Period high:** %.2f%%\n", s.PeriodHigh))
	sb.WriteString(fmt.Sprintf("**Period low:** %.2f%%\n", s.PeriodLow))
	sb.WriteString(fmt.Sprintf("**Range:** %.2f%%\n", s.Range))
	return sb.String()
}
