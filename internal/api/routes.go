package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/", s.handleBanner)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/game/{gameID}", s.handleGame)
	r.Get("/api/progress/{gameID}", s.handleProgress)
	r.Get("/api/status/{gameID}", s.handleStatus)
	r.Get("/api/reports", s.handleReports)
	r.Get("/api/stats/{gameID}", s.handleStats)
	r.Get("/api/eval/{gameID}/{ply}", s.handleEval)
	r.Post("/api/research/{gameID}/{ply}", s.handleResearch)
	r.Get("/api/capture/{gameID}/{ply}", s.handleCapture)

	return r
}
