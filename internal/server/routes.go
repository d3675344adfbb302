package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// API routes - Tickers and selection
	mux.HandleFunc("/api/tickers/popular", s.app.TickerHandler.PopularHandler)
	mux.HandleFunc("/api/selection", s.handleSelectionRoute) // GET, POST, DELETE

	// API routes - Analytics
	mux.HandleFunc("/api/chart", s.app.ChartHandler.ChartHandler)
	mux.HandleFunc("/api/summary", s.app.ChartHandler.SummaryHandler)

	// API routes - Reports
	mux.HandleFunc("/api/reports", s.app.ReportHandler.GenerateHandler)
	mux.HandleFunc("/api/reports/latest", s.app.ReportHandler.LatestHandler)
	mux.HandleFunc("/api/reports/status", s.app.ReportHandler.StatusHandler)

	// API routes - Prices
	mux.HandleFunc("/api/prices/refresh", s.app.PriceHandler.RefreshHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

func (s *Server) handleSelectionRoute(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		http.MethodGet:    s.app.TickerHandler.GetSelectionHandler,
		http.MethodPost:   s.app.TickerHandler.AddTickerHandler,
		http.MethodDelete: s.app.TickerHandler.RemoveTickerHandler,
	})
}
