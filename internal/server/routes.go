package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Service routes
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/query", s.app.QueryHandler.QueryOrdersHandler)
	mux.HandleFunc("/refresh-data", s.app.RefreshHandler.TriggerRefreshHandler)
	mux.HandleFunc("/data-stats", s.app.StatsHandler.GetStatsHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleRoot serves GET / as the health/status endpoint. The bare mux
// pattern "/" also catches unknown paths, which get a 404.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.app.StatusHandler.GetStatusHandler(w, r)
}
