package handlers

import (
	"net/http"

	"github.com/ternarybob/shiftwatch/internal/common"
	"github.com/ternarybob/shiftwatch/internal/interfaces"
)

// SystemHandler serves health and version endpoints
type SystemHandler struct {
	config    *common.Config
	pipeline  interfaces.PipelineService
	scheduler interfaces.SchedulerService
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(config *common.Config, pipeline interfaces.PipelineService, scheduler interfaces.SchedulerService) *SystemHandler {
	return &SystemHandler{
		config:    config,
		pipeline:  pipeline,
		scheduler: scheduler,
	}
}

// HealthHandler handles GET /api/health
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"environment":       h.config.Environment,
		"scraper_enabled":   h.config.Scraper.Enabled,
		"pipeline_running":  h.pipeline.IsRunning(),
		"scheduler_running": h.scheduler.IsRunning(),
	})
}

// VersionHandler handles GET /api/version
func (h *SystemHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
