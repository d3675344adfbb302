// Package app wires the price feed, analytics, report generation and HTTP
// handlers into one application.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/handlers"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/llm"
	"github.com/ternarybob/tickerscope/internal/models"
	"github.com/ternarybob/tickerscope/internal/prices"
	"github.com/ternarybob/tickerscope/internal/reports"
	"github.com/ternarybob/tickerscope/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Price data
	PriceStore   interfaces.PriceStore
	PriceSource  interfaces.PriceSource
	PriceService *prices.Service
	Refresher    *prices.Refresher

	// Report generation
	Completer interfaces.Completer
	Generator *reports.Generator

	// User state
	Selection *models.Selection

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	TickerHandler *handlers.TickerHandler
	ChartHandler  *handlers.ChartHandler
	ReportHandler *handlers.ReportHandler
	PriceHandler  *handlers.PriceHandler
}

// New initializes the application with all dependencies
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Selection: models.NewSelection(cfg.Reports.MaxTickers),
	}

	if err := app.initPrices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize prices: %w", err)
	}

	app.initReports(ctx)
	app.initHandlers()

	logger.Info().
		Str("price_source", app.PriceSource.Name()).
		Str("llm_provider", string(app.Completer.Provider())).
		Int("max_tickers", app.Selection.Capacity()).
		Str("timeframes", fmt.Sprint(cfg.Reports.Timeframes)).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initPrices() error {
	store, err := storage.NewPriceStore(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to open price store: %w", err)
	}
	a.PriceStore = store

	source, err := prices.NewSource(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create price source: %w", err)
	}
	a.PriceSource = source

	a.PriceService = prices.NewService(source, store, a.Config.Prices.LookbackDays, a.Logger)
	a.Refresher = prices.NewRefresher(a.PriceService, a.Today, a.Logger)
	return nil
}

func (a *App) initReports(ctx context.Context) {
	completer, err := llm.NewCompleter(ctx, a.Config, a.Logger)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Str("provider", string(a.Config.LLM.DefaultProvider)).
			Msg("Completion client unavailable, report generation will fail until configured")
		completer = llm.NewUnavailable(models.Provider(a.Config.LLM.DefaultProvider), err)
	}
	a.Completer = completer
	a.Generator = reports.NewGenerator(completer, a.Logger)
}

func (a *App) initHandlers() {
	settings := handlers.NewSettings(a.Config, a.Today)

	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.TickerHandler = handlers.NewTickerHandler(a.Selection, a.Config.Reports.PopularTickers, a.Generator, a.Logger)
	a.ChartHandler = handlers.NewChartHandler(a.PriceService, a.Selection, settings, a.Logger)
	a.ReportHandler = handlers.NewReportHandler(a.Generator, a.PriceService, a.Selection, settings, a.Logger)
	a.PriceHandler = handlers.NewPriceHandler(a.PriceService, settings, a.Logger)
}

// Today is the as-of date in the configured time zone
func (a *App) Today() models.Date {
	loc, err := a.Config.Location()
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Invalid time zone, using UTC")
		loc = nil
	}
	return models.Today(loc)
}

// Start launches background work: the scheduled price refresh
func (a *App) Start() error {
	if err := a.Refresher.Start(a.Config.Prices.RefreshSchedule); err != nil {
		return fmt.Errorf("failed to start price refresher: %w", err)
	}
	return nil
}

// Close stops background work and releases storage
func (a *App) Close() error {
	if a.Generator != nil {
		a.Generator.Cancel()
	}

	if a.Refresher != nil {
		a.Refresher.Stop()
	}

	if a.PriceStore != nil {
		if err := a.PriceStore.Close(); err != nil {
			return fmt.Errorf("failed to close price store: %w", err)
		}
		a.Logger.Info().Msg("Price store closed")
	}
	return nil
}
