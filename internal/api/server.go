package api

import (
	"github.com/replaylens/replaylens/internal/services"
	"github.com/replaylens/replaylens/internal/store"
)

// Server carries the wired service layer for the HTTP handlers. Store is
// only consulted by the readiness probe; handlers go through the services.
type Server struct {
	Analysis services.AnalysisService
	Stats    services.StatsService
	Research services.ResearchService
	Store    *store.Store
	Version  string
}
