package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	stats, err := s.Stats.GameStats(r.Context(), gameID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	ply, err := plyParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	detail, err := s.Stats.MoveEval(r.Context(), gameID, ply)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, detail)
}
