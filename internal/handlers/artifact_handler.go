package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
)

// ArtifactHandler serves the persisted scrape artifacts. Reads never
// trigger a scrape; an artifact that no run has produced yet answers
// with a no_data placeholder.
type ArtifactHandler struct {
	store  interfaces.ArtifactStore
	logger arbor.ILogger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(store interfaces.ArtifactStore, logger arbor.ILogger) *ArtifactHandler {
	return &ArtifactHandler{
		store:  store,
		logger: logger,
	}
}

// GetAttendanceHandler handles GET /api/attendance
func (h *ArtifactHandler) GetAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "attendance")
}

// GetDiaryHandler handles GET /api/diary
func (h *ArtifactHandler) GetDiaryHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "diary")
}

// GetReconciliationHandler handles GET /api/reconciliation
func (h *ArtifactHandler) GetReconciliationHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "reconciliation")
}

// GetMonthlyStatsHandler handles GET /api/stats/monthly
func (h *ArtifactHandler) GetMonthlyStatsHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "monthly_stats")
}

// GetLatestScheduleHandler handles GET /api/schedule/latest
func (h *ArtifactHandler) GetLatestScheduleHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "schedule")
}

func (h *ArtifactHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	doc, err := h.store.Read(name)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			WriteNoData(w)
			return
		}
		h.logger.Error().Err(err).Str("artifact", name).Msg("Artifact read failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}
