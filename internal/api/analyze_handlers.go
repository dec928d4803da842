package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/lichess"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/progress"
)

type analyzeRequest struct {
	GameURL string `json:"gameUrl"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("malformed analyze request: %v", err)
		handleError(w, r, apperr.NewBadRequestError("request body must be JSON with a gameUrl field"))
		return
	}
	if req.GameURL == "" {
		handleError(w, r, apperr.NewBadRequestError("gameUrl required"))
		return
	}

	// Peek before submitting: a game already in flight answers with that
	// run's current state, and the service will not queue it twice.
	var inFlight progress.Status
	if id, err := lichess.ExtractGameID(req.GameURL); err == nil {
		if snap, ok := s.Analysis.Progress(id); ok && snap.Status.Active() {
			inFlight = snap.Status
		}
	}

	gameID, err := s.Analysis.StartAnalysis(r.Context(), req.GameURL)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status := "started"
	message := "analysis started, poll /api/progress/" + gameID
	if inFlight != "" {
		status = string(inFlight)
		message = "analysis already in progress"
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"gameId":  gameID,
		"status":  status,
		"message": message,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	snap, ok := s.Analysis.Progress(gameID)
	if !ok {
		// Pollers may race the submission, so an unknown id is a soft
		// answer rather than a 404.
		respondJSON(w, r, http.StatusOK, map[string]any{
			"gameId":    gameID,
			"percent":   0,
			"completed": 0,
			"total":     0,
			"status":    "not_found",
		})
		return
	}

	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	snap, ok := s.Analysis.Progress(gameID)
	if !ok {
		respondJSON(w, r, http.StatusOK, map[string]any{
			"gameId": gameID,
			"status": "not_found",
		})
		return
	}

	payload := map[string]any{
		"gameId": snap.GameID,
		"status": snap.Status,
	}
	if snap.Error != "" {
		payload["error"] = snap.Error
	}
	respondJSON(w, r, http.StatusOK, payload)
}
