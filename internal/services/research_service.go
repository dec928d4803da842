package services

import (
	"context"
	"fmt"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/lichess"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/pgn"
	"github.com/replaylens/replaylens/internal/research"
)

// ResearchService mirrors game positions into external boards: the live
// analysis page for digging into a move, or a static image of the board.
type ResearchService interface {
	OpenResearch(ctx context.Context, gameID string, ply int) (*models.ResearchResult, error)
	CapturePosition(ctx context.Context, gameID string, ply int) (*models.CaptureResult, error)
}

type researchService struct {
	client     lichess.ClientInterface
	researcher *research.Researcher
}

// NewResearchService creates a ResearchService around the given client and
// researcher.
func NewResearchService(client lichess.ClientInterface, researcher *research.Researcher) ResearchService {
	return &researchService{client: client, researcher: researcher}
}

// OpenResearch opens the position after ply moves in the analysis board.
// Moves that fail to replay are skipped.
func (s *researchService) OpenResearch(ctx context.Context, gameID string, ply int) (*models.ResearchResult, error) {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	game, err := s.client.FetchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if ply < 0 || ply > len(game.Moves) {
		return nil, apperr.NewValidationError("ply", fmt.Sprintf("game has %d moves", len(game.Moves)))
	}

	fen := analysis.FENAtPlyLenient(game.Moves, ply)
	var movetext string
	if ply > 0 {
		movetext = pgn.FormatMovetext(game.Moves[:ply])
	}

	result := s.researcher.Open(ctx, fen, movetext)
	log.Info("research for ply %d opened via %s", ply, result.Method)
	return &models.ResearchResult{GameID: gameID, Ply: ply, URL: result.URL, Method: result.Method}, nil
}

// CapturePosition returns a board-image URL for the position after ply
// moves. Unlike research, an unreplayable transcript is an error here.
func (s *researchService) CapturePosition(ctx context.Context, gameID string, ply int) (*models.CaptureResult, error) {
	game, err := s.client.FetchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if ply < 0 || ply > len(game.Moves) {
		return nil, apperr.NewValidationError("ply", fmt.Sprintf("game has %d moves", len(game.Moves)))
	}

	fen, err := analysis.FENAtPly(game.Moves, ply)
	if err != nil {
		return nil, apperr.NewBadRequestError(err.Error())
	}

	return &models.CaptureResult{GameID: gameID, Ply: ply, FEN: fen, URL: research.CaptureURL(fen)}, nil
}
