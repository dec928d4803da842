package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/progress"
)

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	report, err := s.Analysis.GetReport(r.Context(), gameID)
	if err != nil {
		// The archive only holds finished reports, so a miss may just mean
		// the run is still going. Say so instead of a bare not-found.
		if apperr.IsNotFound(err) {
			if snap, ok := s.Analysis.Progress(gameID); ok {
				switch {
				case snap.Status.Active():
					err = &apperr.AppError{
						Code:    apperr.CodeNotFound,
						Message: fmt.Sprintf("analysis for %s is still %s", gameID, snap.Status),
						Status:  http.StatusNotFound,
					}
				case snap.Status == progress.StatusFailed:
					err = &apperr.AppError{
						Code:    apperr.CodeNotFound,
						Message: fmt.Sprintf("analysis for %s failed: %s", gameID, snap.Error),
						Status:  http.StatusNotFound,
					}
				}
			}
		}
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	filter := models.ReportFilter{Player: r.URL.Query().Get("player")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			handleError(w, r, apperr.NewValidationError("limit", fmt.Sprintf("%q is not a positive number", raw)))
			return
		}
		filter.Limit = limit
	}

	summaries, err := s.Analysis.ListReports(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"reports": summaries,
		"count":   len(summaries),
	})
}
