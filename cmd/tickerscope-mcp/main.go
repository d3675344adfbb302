package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/tickerscope/internal/app"
	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/handlers"
)

func main() {
	configPath := os.Getenv("TICKERSCOPE_CONFIG")
	if configPath == "" {
		configPath = "tickerscope.toml"
	}

	var paths []string
	if _, err := os.Stat(configPath); err == nil {
		paths = append(paths, configPath)
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Console only, warn level: stdout carries the MCP protocol
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	application, err := app.New(context.Background(), config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	deps := &toolDeps{
		prices:     application.PriceService,
		generator:  application.Generator,
		popular:    config.Reports.PopularTickers,
		maxTickers: config.Reports.MaxTickers,
		settings:   handlers.NewSettings(config, application.Today),
		logger:     logger,
	}

	mcpServer := server.NewMCPServer(
		"tickerscope",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createListPopularTickersTool(), handleListPopularTickers(deps))
	mcpServer.AddTool(createChartPerformanceTool(), handleChartPerformance(deps))
	mcpServer.AddTool(createSummarizeTickerTool(), handleSummarizeTicker(deps))
	mcpServer.AddTool(createGenerateReportsTool(), handleGenerateReports(deps))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
