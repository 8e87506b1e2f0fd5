package server

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Pipeline trigger
	mux.HandleFunc("/api/scrape/trigger", s.app.ScrapeHandler.TriggerHandler) // POST - run pipeline now

	// Artifact reads (never trigger a scrape)
	mux.HandleFunc("/api/attendance", s.app.ArtifactHandler.GetAttendanceHandler)
	mux.HandleFunc("/api/diary", s.app.ArtifactHandler.GetDiaryHandler)
	mux.HandleFunc("/api/reconciliation", s.app.ArtifactHandler.GetReconciliationHandler)
	mux.HandleFunc("/api/stats/monthly", s.app.ArtifactHandler.GetMonthlyStatsHandler)
	mux.HandleFunc("/api/schedule/latest", s.app.ArtifactHandler.GetLatestScheduleHandler)

	// On-demand forward schedule aggregation
	mux.HandleFunc("/api/schedule", s.app.ScheduleHandler.GetScheduleHandler) // GET ?days=N

	// Scheduler and run history
	mux.HandleFunc("/api/scheduler/status", s.app.SchedulerHandler.GetStatusHandler)
	mux.HandleFunc("/api/runs", s.app.RunHandler.ListRunsHandler) // GET ?limit=N

	// System
	mux.HandleFunc("/api/health", s.app.SystemHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.SystemHandler.VersionHandler)

	return mux
}
