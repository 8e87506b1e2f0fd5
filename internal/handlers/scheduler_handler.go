package handlers

import (
	"net/http"

	"github.com/ternarybob/shiftwatch/internal/interfaces"
)

// SchedulerHandler exposes scheduled-job metadata
type SchedulerHandler struct {
	scheduler interfaces.SchedulerService
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(scheduler interfaces.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// GetStatusHandler handles GET /api/scheduler/status
func (h *SchedulerHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.scheduler.IsRunning(),
		"jobs":    h.scheduler.GetAllJobStatuses(),
	})
}
