package services

import (
	"context"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/lichess"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/pgn"
)

// StatsService computes per-player move quality statistics from the
// eval-annotated PGN export of a game.
type StatsService interface {
	GameStats(ctx context.Context, gameID string) (*models.GameStats, error)
	MoveEval(ctx context.Context, gameID string, ply int) (*models.MoveEvalDetail, error)
}

type statsService struct {
	client lichess.ClientInterface
}

// NewStatsService creates a StatsService reading annotated exports through
// the given client.
func NewStatsService(client lichess.ClientInterface) StatsService {
	return &statsService{client: client}
}

func (s *statsService) GameStats(ctx context.Context, gameID string) (*models.GameStats, error) {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	pgnText, err := s.client.FetchAnnotatedPGN(ctx, gameID)
	if err != nil {
		return nil, err
	}

	annotated := pgn.AnnotatedMoves(pgnText)
	if len(annotated) == 0 {
		// Unevaluated games still get a stats answer: all zeroes, N/A bands.
		log.Warn("export carries no evaluation annotations")
	}
	records := analysis.ChainAnnotated(annotated)
	stats := analysis.GameStatsFrom(gameID, records)
	log.Info("computed stats over %d annotated moves", stats.TotalMoves)
	return &stats, nil
}

func (s *statsService) MoveEval(ctx context.Context, gameID string, ply int) (*models.MoveEvalDetail, error) {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	pgnText, err := s.client.FetchAnnotatedPGN(ctx, gameID)
	if err != nil {
		return nil, err
	}

	moves := pgn.ExtractMoves(pgnText)
	records := analysis.ChainAnnotated(pgn.AnnotatedMoves(pgnText))

	detail, err := analysis.MoveEvalAt(gameID, moves, records, ply)
	if err != nil {
		log.Debug("move eval rejected: %v", err)
		return nil, apperr.NewValidationError("ply", err.Error())
	}
	return &detail, nil
}
