package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createListPopularTickersTool returns the list_popular_tickers tool definition
func createListPopularTickersTool() mcp.Tool {
	return mcp.NewTool("list_popular_tickers",
		mcp.WithDescription("List the suggested ticker symbols offered for quick selection"),
	)
}

// createChartPerformanceTool returns the chart_performance tool definition
func createChartPerformanceTool() mcp.Tool {
	return mcp.NewTool("chart_performance",
		mcp.WithDescription("Percent change of each ticker's close price relative to the first close in the range, per trading day"),
		mcp.WithArray("tickers",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Ticker symbols, e.g. [\"AAPL\", \"MSFT\"]"),
		),
		mcp.WithNumber("days",
			mcp.Description("Days back from as_of (default and max: the configured lookback)"),
		),
		mcp.WithString("as_of",
			mcp.Description("End date YYYY-MM-DD (default: today)"),
		),
	)
}

// createSummarizeTickerTool returns the summarize_ticker tool definition
func createSummarizeTickerTool() mcp.Tool {
	return mcp.NewTool("summarize_ticker",
		mcp.WithDescription("Current change, period high, period low and range for one ticker over a timeframe"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Ticker symbol"),
		),
		mcp.WithNumber("days",
			mcp.Description("Timeframe in days, one of the configured timeframes (default: 7)"),
		),
		mcp.WithString("as_of",
			mcp.Description("End date YYYY-MM-DD (default: today)"),
		),
	)
}

// createGenerateReportsTool returns the generate_reports tool definition
func createGenerateReportsTool() mcp.Tool {
	return mcp.NewTool("generate_reports",
		mcp.WithDescription("Ask the forecasting service for one structured report per ticker"),
		mcp.WithArray("tickers",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Ticker symbols, at most the configured maximum"),
		),
		mcp.WithNumber("timeframe_days",
			mcp.Description("Forecast horizon, one of the configured timeframes (default: 7)"),
		),
		mcp.WithString("as_of",
			mcp.Description("Analysis date YYYY-MM-DD (default: today)"),
		),
	)
}
