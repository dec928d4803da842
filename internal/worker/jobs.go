package worker

import (
	"context"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/progress"
)

// GameFetcher is the slice of the Lichess client the analyze job needs.
// Declared here to keep the services package out of the import graph.
type GameFetcher interface {
	FetchGame(ctx context.Context, gameID string) (models.GameRecord, error)
}

// ReportSaver persists finished reports.
type ReportSaver interface {
	SaveReport(ctx context.Context, report models.AnalysisReport) error
}

// AnalyzeGameJob runs one full analysis: fetch the game, evaluate every
// position, persist the report. Tracker state is flipped at each stage so
// pollers can follow along.
type AnalyzeGameJob struct {
	GameID   string
	Fetcher  GameFetcher
	Analyzer analysis.Analyzer
	Saver    ReportSaver
	Tracker  *progress.Tracker
}

func (j *AnalyzeGameJob) Name() string { return "analyze_game" }

func (j *AnalyzeGameJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("game_id", j.GameID)

	j.Tracker.SetStage(j.GameID, progress.StatusFetching)
	game, err := j.Fetcher.FetchGame(ctx, j.GameID)
	if err != nil {
		log.Error("game fetch failed: %v", err)
		j.Tracker.Fail(j.GameID, err)
		return err
	}

	j.Tracker.SetStage(j.GameID, progress.StatusAnalyzing)
	report, err := j.Analyzer.AnalyzeGame(ctx, game, func(percent, completed, total int) {
		j.Tracker.Update(j.GameID, percent, completed, total)
	})
	if err != nil {
		log.Error("analysis failed: %v", err)
		j.Tracker.Fail(j.GameID, err)
		return err
	}

	if err := j.Saver.SaveReport(ctx, *report); err != nil {
		log.Error("failed to persist report: %v", err)
		j.Tracker.Fail(j.GameID, err)
		return err
	}

	j.Tracker.Complete(j.GameID)
	log.Info("analysis complete: %d moves, %d white mistakes, %d black mistakes",
		report.TotalMoves, report.WhiteMistakes, report.BlackMistakes)
	return nil
}
