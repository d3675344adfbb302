package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/analytics"
	"github.com/ternarybob/tickerscope/internal/export"
	"github.com/ternarybob/tickerscope/internal/handlers"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
	"github.com/ternarybob/tickerscope/internal/reports"
)

// toolDeps is what the tool handlers share
type toolDeps struct {
	prices     interfaces.PriceProvider
	generator  *reports.Generator
	popular    []string
	maxTickers int
	settings   handlers.Settings
	logger     arbor.ILogger
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	result := textResult("Error: " + fmt.Sprintf(format, args...))
	result.IsError = true
	return result
}

// handleListPopularTickers implements the list_popular_tickers tool
func handleListPopularTickers(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatPopular(deps.popular)), nil
	}
}

// handleChartPerformance implements the chart_performance tool
func handleChartPerformance(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers, err := requestTickers(request)
		if err != nil {
			return errorResult("%v", err), nil
		}

		days := request.GetInt("days", deps.settings.LookbackDays)
		if days <= 0 || days > deps.settings.LookbackDays {
			return errorResult("days must be between 1 and %d", deps.settings.LookbackDays), nil
		}

		asOf, err := requestAsOf(request, deps)
		if err != nil {
			return errorResult("%v", err), nil
		}

		records, err := deps.prices.Load(ctx, asOf)
		if err != nil {
			deps.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Price load failed")
			return errorResult("price data unavailable: %v", err), nil
		}

		r, err := analytics.NewDateRange(asOf, days)
		if err != nil {
			return errorResult("%v", err), nil
		}

		points := analytics.Normalize(records, tickers, r)
		return textResult(formatChart(tickers, r, points)), nil
	}
}

// handleSummarizeTicker implements the summarize_ticker tool
func handleSummarizeTicker(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("ticker")
		if err != nil || raw == "" {
			return errorResult("ticker parameter is required"), nil
		}
		ticker, err := models.NormalizeTicker(raw)
		if err != nil {
			return errorResult("%v", err), nil
		}

		days := request.GetInt("days", deps.settings.DefaultTimeframe)
		if !slices.Contains(deps.settings.Timeframes, days) {
			return errorResult("days must be one of %v", deps.settings.Timeframes), nil
		}

		asOf, err := requestAsOf(request, deps)
		if err != nil {
			return errorResult("%v", err), nil
		}

		records, err := deps.prices.Load(ctx, asOf)
		if err != nil {
			deps.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Price load failed")
			return errorResult("price data unavailable: %v", err), nil
		}

		summary, ok := analytics.Summarize(records, ticker, days, asOf)
		if !ok {
			return textResult(fmt.Sprintf("No data for %s in the %d days to %s.", ticker, days, asOf)), nil
		}
		return textResult(formatSummary(summary, asOf)), nil
	}
}

// handleGenerateReports implements the generate_reports tool
func handleGenerateReports(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers, err := requestTickers(request)
		if err != nil {
			return errorResult("%v", err), nil
		}
		if len(tickers) > deps.maxTickers {
			return errorResult("maximum of %d tickers reached", deps.maxTickers), nil
		}

		timeframe := request.GetInt("timeframe_days", deps.settings.DefaultTimeframe)
		if !slices.Contains(deps.settings.Timeframes, timeframe) {
			return errorResult("timeframe_days must be one of %v", deps.settings.Timeframes), nil
		}

		asOf, err := requestAsOf(request, deps)
		if err != nil {
			return errorResult("%v", err), nil
		}

		records, err := deps.prices.Load(ctx, asOf)
		if err != nil {
			deps.logger.Error().Err(err).Str("as_of", asOf.String()).Msg("Price load failed")
			return errorResult("price data unavailable: %v", err), nil
		}

		set, err := deps.generator.Generate(ctx, reports.GenerateInput{
			Tickers:       tickers,
			Records:       records,
			TimeframeDays: timeframe,
			AsOf:          asOf,
		})
		if err != nil {
			var re *reports.Error
			if errors.As(err, &re) {
				return errorResult("%s (%s)", re.UserMessage(), re.Kind), nil
			}
			return errorResult("%v", err), nil
		}
		return textResult(export.Markdown(set)), nil
	}
}

// requestTickers reads and normalizes the tickers argument, dropping duplicates
func requestTickers(request mcp.CallToolRequest) ([]string, error) {
	raw := request.GetStringSlice("tickers", nil)
	if len(raw) == 0 {
		return nil, errors.New("tickers parameter is required")
	}

	tickers := make([]string, 0, len(raw))
	for _, r := range raw {
		ticker, err := models.NormalizeTicker(r)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(tickers, ticker) {
			tickers = append(tickers, ticker)
		}
	}
	return tickers, nil
}

func requestAsOf(request mcp.CallToolRequest, deps *toolDeps) (models.Date, error) {
	value := request.GetString("as_of", "")
	if value == "" {
		return deps.settings.Today(), nil
	}
	return models.ParseDate(value)
}
