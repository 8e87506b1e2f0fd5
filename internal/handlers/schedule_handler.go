package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/models"
)

const defaultScheduleDays = 7

// AggregateFunc performs one on-demand schedule aggregation over the
// next days distinct dates. Implementations own their browser session
// for the duration of the call and release it before returning.
type AggregateFunc func(ctx context.Context, days int) ([]models.DailyAttendance, error)

// ScheduleHandler serves the forward attendance calendar
type ScheduleHandler struct {
	aggregate AggregateFunc
	logger    arbor.ILogger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(aggregate AggregateFunc, logger arbor.ILogger) *ScheduleHandler {
	return &ScheduleHandler{
		aggregate: aggregate,
		logger:    logger,
	}
}

// GetScheduleHandler handles GET /api/schedule?days=N. Aggregation
// runs against a session independent of the pipeline's, so a request
// here never contends with a scheduled run.
func (h *ScheduleHandler) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	days := defaultScheduleDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	schedule, err := h.aggregate(r.Context(), days)
	if err != nil {
		h.logger.Error().Err(err).Int("days", days).Msg("Schedule aggregation failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"days":     len(schedule),
		"schedule": schedule,
	})
}
