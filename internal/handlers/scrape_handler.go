package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
)

// ScrapeHandler handles manual pipeline triggers
type ScrapeHandler struct {
	pipeline interfaces.PipelineService
	logger   arbor.ILogger
}

// NewScrapeHandler creates a new scrape handler
func NewScrapeHandler(pipeline interfaces.PipelineService, logger arbor.ILogger) *ScrapeHandler {
	return &ScrapeHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// TriggerHandler handles POST /api/scrape/trigger. The run is
// synchronous: the response carries the fresh result. A trigger while
// a run is in flight is rejected, never queued.
func (h *ScrapeHandler) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.pipeline.Run(r.Context(), models.RunTriggerManual)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyRunning):
			WriteError(w, http.StatusConflict, "already running")
		case errors.Is(err, models.ErrScrapingDisabled):
			WriteError(w, http.StatusNotImplemented, "scraping not supported in this deployment")
		default:
			h.logger.Error().Err(err).Msg("Manual scrape failed")
			WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
