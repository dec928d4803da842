package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/services"
	"github.com/replaylens/replaylens/internal/testutil/mocks"
)

const annotatedExport = `[Event "Rated blitz game"]
[Site "https://lichess.org/AbCdEf12"]
[White "alice"]
[Black "bob"]
[Result "1-0"]

1. e4 { [%eval 0.3] } e5 { [%eval -0.2] } 2. Nf3 { [%eval 0.35] } 1-0`

func newStatsService(t *testing.T, gameID, export string) services.StatsService {
	t.Helper()
	client := &mocks.MockLichessClient{}
	client.On("FetchAnnotatedPGN", mock.Anything, gameID).Return(export, nil)
	return services.NewStatsService(client)
}

func TestGameStats_AnnotatedExport(t *testing.T) {
	svc := newStatsService(t, "AbCdEf12", annotatedExport)

	stats, err := svc.GameStats(context.Background(), "AbCdEf12")
	require.NoError(t, err)

	assert.Equal(t, "AbCdEf12", stats.GameID)
	assert.Equal(t, 3, stats.TotalMoves)

	// White plays e4 (no before-eval, accurate) and Nf3 (swing 55, good).
	assert.Equal(t, 1, stats.White.Accurate)
	assert.Equal(t, 1, stats.White.Good)
	assert.Equal(t, 2, stats.White.Total)
	assert.Equal(t, 100.0, stats.White.Accuracy)
	assert.Equal(t, "excellent", stats.White.Assessment)

	// Black plays e5 (swing 50, good).
	assert.Equal(t, 1, stats.Black.Good)
	assert.Equal(t, 1, stats.Black.Total)
	assert.Equal(t, "excellent", stats.Black.Assessment)
}

func TestGameStats_BlunderAssessment(t *testing.T) {
	export := `[White "alice"]
[Black "bob"]
[Result "1-0"]

1. e4 { [%eval 0.3] } e5 { [%eval 5.0] } 1-0`
	svc := newStatsService(t, "AbCdEf12", export)

	stats, err := svc.GameStats(context.Background(), "AbCdEf12")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Black.Blunder)
	assert.Equal(t, 0.0, stats.Black.Accuracy)
	assert.Equal(t, "struggled", stats.Black.Assessment)
	assert.Equal(t, "excellent", stats.White.Assessment)
}

func TestGameStats_NoMoves(t *testing.T) {
	export := `[White "alice"]
[Black "bob"]
[Result "0-1"]

0-1`
	svc := newStatsService(t, "AbCdEf12", export)

	stats, err := svc.GameStats(context.Background(), "AbCdEf12")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalMoves)
	assert.Equal(t, 0, stats.White.Total)
	assert.Equal(t, "N/A", stats.White.Assessment)
	assert.Equal(t, "N/A", stats.Black.Assessment)
}

func TestGameStats_UnannotatedMovesReadAccurate(t *testing.T) {
	export := `[White "alice"]
[Black "bob"]
[Result "1-0"]

1. e4 e5 1-0`
	svc := newStatsService(t, "AbCdEf12", export)

	stats, err := svc.GameStats(context.Background(), "AbCdEf12")
	require.NoError(t, err)

	// Without evals there is nothing to grade against, so every move counts
	// as accurate rather than erroring out.
	assert.Equal(t, 2, stats.TotalMoves)
	assert.Equal(t, 1, stats.White.Accurate)
	assert.Equal(t, 1, stats.Black.Accurate)
}

func TestGameStats_FetchError(t *testing.T) {
	client := &mocks.MockLichessClient{}
	client.On("FetchAnnotatedPGN", mock.Anything, "missing1").
		Return("", apperr.NewNotFoundError("game", "missing1"))
	svc := services.NewStatsService(client)

	_, err := svc.GameStats(context.Background(), "missing1")
	assert.True(t, apperr.IsNotFound(err))
}

func TestMoveEval_BlackPerspectiveDelta(t *testing.T) {
	svc := newStatsService(t, "AbCdEf12", annotatedExport)

	detail, err := svc.MoveEval(context.Background(), "AbCdEf12", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, detail.Ply)
	assert.Equal(t, "e5", detail.Move)
	assert.Equal(t, "black", detail.Player)
	require.NotNil(t, detail.BeforeCP)
	assert.Equal(t, 30, *detail.BeforeCP)
	require.NotNil(t, detail.AfterCP)
	assert.Equal(t, -20, *detail.AfterCP)
	require.NotNil(t, detail.DeltaCP)
	assert.Equal(t, 50, *detail.DeltaCP, "white-frame drop of 50 is a black gain")
	assert.Equal(t, "good", detail.Category)

	wantBefore, err := analysis.FENAtPly([]string{"e4", "e5", "Nf3"}, 1)
	require.NoError(t, err)
	wantAfter, err := analysis.FENAtPly([]string{"e4", "e5", "Nf3"}, 2)
	require.NoError(t, err)
	assert.Equal(t, wantBefore, detail.FENBefore)
	assert.Equal(t, wantAfter, detail.FENAfter)
}

func TestMoveEval_FirstMoveHasNoBefore(t *testing.T) {
	svc := newStatsService(t, "AbCdEf12", annotatedExport)

	detail, err := svc.MoveEval(context.Background(), "AbCdEf12", 1)
	require.NoError(t, err)

	assert.Nil(t, detail.BeforeCP)
	require.NotNil(t, detail.AfterCP)
	assert.Equal(t, 30, *detail.AfterCP)
	assert.Nil(t, detail.DeltaCP)
	assert.Equal(t, "accurate", detail.Category)
}

func TestMoveEval_PlyOutOfRange(t *testing.T) {
	svc := newStatsService(t, "AbCdEf12", annotatedExport)

	_, err := svc.MoveEval(context.Background(), "AbCdEf12", 99)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}
