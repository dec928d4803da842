package api

import (
	"net/http"

	"github.com/replaylens/replaylens/internal/logger"
)

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"message": "Lichess replay analysis API",
		"version": s.Version,
	})
}

// handleHealth returns a liveness probe. 200 means the process is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady reports whether the service can take traffic, which comes down
// to the report archive answering a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Store != nil {
		if err := s.Store.PingContext(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("readiness check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Archive unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
