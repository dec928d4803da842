package services

import (
	"context"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/lichess"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/progress"
	"github.com/replaylens/replaylens/internal/worker"
)

// ReportArchive is the slice of the store the services read and write.
type ReportArchive interface {
	SaveReport(ctx context.Context, report models.AnalysisReport) error
	GetReport(ctx context.Context, gameID string) (*models.AnalysisReport, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]models.ReportSummary, error)
}

// AnalysisService owns the submit-poll-fetch lifecycle of game analyses.
type AnalysisService interface {
	StartAnalysis(ctx context.Context, gameURL string) (string, error)
	GetReport(ctx context.Context, gameID string) (*models.AnalysisReport, error)
	Progress(gameID string) (progress.Snapshot, bool)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]models.ReportSummary, error)
}

type analysisService struct {
	client   lichess.ClientInterface
	analyzer analysis.Analyzer
	archive  ReportArchive
	tracker  *progress.Tracker
	pool     *worker.Pool
}

// NewAnalysisService creates an AnalysisService backed by the given client,
// analyzer, archive, tracker and worker pool.
func NewAnalysisService(client lichess.ClientInterface, analyzer analysis.Analyzer, archive ReportArchive, tracker *progress.Tracker, pool *worker.Pool) AnalysisService {
	return &analysisService{
		client:   client,
		analyzer: analyzer,
		archive:  archive,
		tracker:  tracker,
		pool:     pool,
	}
}

// StartAnalysis validates the submitted URL, extracts the game id, and
// queues the analysis job. Submitting a game that is already queued or
// running returns the same id without queueing a second run.
func (s *analysisService) StartAnalysis(ctx context.Context, gameURL string) (string, error) {
	log := logger.FromContext(ctx)

	gameID, err := lichess.ExtractGameID(gameURL)
	if err != nil {
		log.Debug("rejected analysis submission: %v", err)
		return "", err
	}
	log = log.WithField("game_id", gameID)

	if s.tracker.Running(gameID) {
		log.Info("analysis already in flight, not requeueing")
		return gameID, nil
	}

	s.tracker.Start(gameID)
	job := &worker.AnalyzeGameJob{
		GameID:   gameID,
		Fetcher:  s.client,
		Analyzer: s.analyzer,
		Saver:    s.archive,
		Tracker:  s.tracker,
	}
	if err := s.pool.TrySubmit(job); err != nil {
		s.tracker.Fail(gameID, err)
		return "", err
	}
	log.Info("analysis queued")
	return gameID, nil
}

func (s *analysisService) GetReport(ctx context.Context, gameID string) (*models.AnalysisReport, error) {
	return s.archive.GetReport(ctx, gameID)
}

func (s *analysisService) Progress(gameID string) (progress.Snapshot, bool) {
	return s.tracker.Get(gameID)
}

func (s *analysisService) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.ReportSummary, error) {
	return s.archive.ListReports(ctx, filter)
}
