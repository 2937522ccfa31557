package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// ActivityHandler exposes the document audit trail
type ActivityHandler struct {
	activityService services.ActivityService
	logger          *slog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService services.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListActivities lists audit entries visible to the principal
// GET /api/activities?kind=&document_id=
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var filter repositories.ActivityFilter
	q := r.URL.Query()
	filter.Kind = models.ActivityKind(q.Get("kind"))
	if v := q.Get("document_id"); v != "" {
		filter.DocumentID = &v
	}

	activities, err := h.activityService.ListActivities(r.Context(), p, filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, activities)
}
