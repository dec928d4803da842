package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	ply, err := plyParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Research.OpenResearch(r.Context(), gameID, ply)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	ply, err := plyParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Research.CapturePosition(r.Context(), gameID, ply)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
