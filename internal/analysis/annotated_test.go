package analysis_test

import (
	"testing"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotated(ply int, san string, cp, mate *int) models.AnnotatedMove {
	return models.AnnotatedMove{Ply: ply, SAN: san, CP: cp, Mate: mate}
}

func TestChainAnnotated(t *testing.T) {
	moves := []models.AnnotatedMove{
		annotated(1, "e4", intPtr(17), nil),
		annotated(2, "e5", intPtr(19), nil),
		annotated(3, "Nf3", intPtr(300), nil),
		annotated(4, "Nc6", nil, nil),
	}

	records := analysis.ChainAnnotated(moves)
	require.Len(t, records, 4)

	// The first move never has a before-eval to compare against.
	assert.Nil(t, records[0].Before)
	assert.Equal(t, models.CategoryAccurate, records[0].Category)

	require.NotNil(t, records[1].Before)
	assert.Equal(t, 17, *records[1].Before.CP)
	assert.Equal(t, models.CategoryAccurate, records[1].Category)

	// 19 -> 300 is a 281 cp swing in white's favour.
	require.NotNil(t, records[2].Before)
	assert.Equal(t, 19, *records[2].Before.CP)
	assert.Equal(t, models.CategoryMistake, records[2].Category)

	// The unannotated tail move chains a before-eval but no after.
	require.NotNil(t, records[3].Before)
	assert.Nil(t, records[3].After)
	assert.Equal(t, models.CategoryAccurate, records[3].Category)
}

func TestChainAnnotated_PreGameNode(t *testing.T) {
	moves := []models.AnnotatedMove{
		annotated(0, "", intPtr(20), nil),
		annotated(1, "e4", intPtr(25), nil),
		annotated(2, "e5", intPtr(30), nil),
	}

	records := analysis.ChainAnnotated(moves)
	require.Len(t, records, 3)

	assert.Equal(t, 0, records[0].Ply)
	require.NotNil(t, records[0].Before)
	require.NotNil(t, records[0].After)
	assert.Equal(t, 20, *records[0].After.CP)
	assert.Equal(t, models.CategoryAccurate, records[0].Category)

	// The first played move still starts without a before-eval.
	assert.Nil(t, records[1].Before)

	require.NotNil(t, records[2].Before)
	assert.Equal(t, 25, *records[2].Before.CP)
}

func TestChainAnnotated_Empty(t *testing.T) {
	assert.Empty(t, analysis.ChainAnnotated(nil))
}

func TestPlayerStatsFor(t *testing.T) {
	records := []analysis.AnnotatedRecord{
		{Ply: 1, Category: models.CategoryAccurate},
		{Ply: 2, Category: models.CategoryAccurate},
		{Ply: 3, Category: models.CategoryGood},
		{Ply: 4, Category: models.CategoryAccurate},
		{Ply: 5, Category: models.CategoryMistake},
		{Ply: 7, Category: models.CategoryBlunder},
	}

	white := analysis.PlayerStatsFor(records, true)
	assert.Equal(t, 4, white.Total)
	assert.Equal(t, 1, white.Accurate)
	assert.Equal(t, 1, white.Good)
	assert.Equal(t, 1, white.Mistake)
	assert.Equal(t, 1, white.Blunder)
	assert.Equal(t, 50.0, white.Accuracy)
	assert.Equal(t, "inconsistent", white.Assessment)

	black := analysis.PlayerStatsFor(records, false)
	assert.Equal(t, 2, black.Total)
	assert.Equal(t, 2, black.Accurate)
	assert.Equal(t, 100.0, black.Accuracy)
	assert.Equal(t, "excellent", black.Assessment)
}

func TestPlayerStatsFor_AssessmentBands(t *testing.T) {
	build := func(accurate, inaccuracy, mistake, blunder int) []analysis.AnnotatedRecord {
		var records []analysis.AnnotatedRecord
		ply := 1
		add := func(n int, category string) {
			for i := 0; i < n; i++ {
				records = append(records, analysis.AnnotatedRecord{Ply: ply, Category: category})
				ply += 2
			}
		}
		add(accurate, models.CategoryAccurate)
		add(inaccuracy, models.CategoryInaccuracy)
		add(mistake, models.CategoryMistake)
		add(blunder, models.CategoryBlunder)
		return records
	}

	tests := []struct {
		name       string
		records    []analysis.AnnotatedRecord
		accuracy   float64
		assessment string
	}{
		{"ninety percent is excellent", build(9, 1, 0, 0), 90.0, "excellent"},
		{"eighty percent is good", build(8, 2, 0, 0), 80.0, "good"},
		{"seventy percent is fair", build(7, 3, 0, 0), 70.0, "fair"},
		{"blunder heavy is struggled", build(1, 0, 1, 2), 25.0, "struggled"},
		{"mistake heavy is inconsistent", build(1, 0, 2, 1), 25.0, "inconsistent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := analysis.PlayerStatsFor(tt.records, true)
			assert.Equal(t, tt.accuracy, stats.Accuracy)
			assert.Equal(t, tt.assessment, stats.Assessment)
		})
	}
}

func TestPlayerStatsFor_RoundsAccuracy(t *testing.T) {
	records := []analysis.AnnotatedRecord{
		{Ply: 1, Category: models.CategoryAccurate},
		{Ply: 3, Category: models.CategoryGood},
		{Ply: 5, Category: models.CategoryBlunder},
	}

	stats := analysis.PlayerStatsFor(records, true)

	assert.Equal(t, 66.7, stats.Accuracy)
	assert.Equal(t, "struggled", stats.Assessment)
}

func TestPlayerStatsFor_NoMoves(t *testing.T) {
	stats := analysis.PlayerStatsFor(nil, true)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.Accuracy)
	assert.Equal(t, "N/A", stats.Assessment)
}

func TestPlayerStatsFor_IgnoresPreGameNode(t *testing.T) {
	records := []analysis.AnnotatedRecord{
		{Ply: 0, Category: models.CategoryAccurate},
		{Ply: 1, Category: models.CategoryGood},
	}

	white := analysis.PlayerStatsFor(records, true)
	assert.Equal(t, 1, white.Total)

	black := analysis.PlayerStatsFor(records, false)
	assert.Equal(t, 0, black.Total)
}

func TestGameStatsFrom(t *testing.T) {
	records := []analysis.AnnotatedRecord{
		{Ply: 1, Category: models.CategoryAccurate},
		{Ply: 2, Category: models.CategoryBlunder},
		{Ply: 3, Category: models.CategoryGood},
	}

	stats := analysis.GameStatsFrom("abcd1234", records)

	assert.Equal(t, "abcd1234", stats.GameID)
	assert.Equal(t, 2, stats.White.Total)
	assert.Equal(t, 1, stats.Black.Total)
	assert.Equal(t, 3, stats.TotalMoves)
	assert.Equal(t, 1, stats.Black.Blunder)
}

func TestMoveEvalAt(t *testing.T) {
	moves := []string{"e4", "e5", "Nf3"}
	records := analysis.ChainAnnotated([]models.AnnotatedMove{
		annotated(1, "e4", intPtr(17), nil),
		annotated(2, "e5", intPtr(19), nil),
		annotated(3, "Nf3", intPtr(25), nil),
	})

	detail, err := analysis.MoveEvalAt("abcd1234", moves, records, 2)

	require.NoError(t, err)
	assert.Equal(t, "abcd1234", detail.GameID)
	assert.Equal(t, 2, detail.Ply)
	assert.Equal(t, "e5", detail.Move)
	assert.Equal(t, models.ColorBlack, detail.Player)
	require.NotNil(t, detail.BeforeCP)
	assert.Equal(t, 17, *detail.BeforeCP)
	require.NotNil(t, detail.AfterCP)
	assert.Equal(t, 19, *detail.AfterCP)

	// White-frame +2 reads as -2 from the black mover's side.
	require.NotNil(t, detail.DeltaCP)
	assert.Equal(t, -2, *detail.DeltaCP)
	assert.Nil(t, detail.DeltaMate)

	expectedBefore, err := analysis.FENAtPly(moves, 1)
	require.NoError(t, err)
	assert.Equal(t, expectedBefore, detail.FENBefore)

	expectedAfter, err := analysis.FENAtPly(moves, 2)
	require.NoError(t, err)
	assert.Equal(t, expectedAfter, detail.FENAfter)
}

func TestMoveEvalAt_MateAnnotation(t *testing.T) {
	moves := []string{"e4", "e5"}
	records := analysis.ChainAnnotated([]models.AnnotatedMove{
		annotated(1, "e4", intPtr(17), nil),
		annotated(2, "e5", nil, intPtr(3)),
	})

	detail, err := analysis.MoveEvalAt("mate0001", moves, records, 2)

	require.NoError(t, err)
	assert.Nil(t, detail.DeltaCP)
	require.NotNil(t, detail.DeltaMate)
	assert.Equal(t, 3, *detail.DeltaMate)
	require.NotNil(t, detail.AfterMate)
	assert.Equal(t, 3, *detail.AfterMate)
}

func TestMoveEvalAt_MateZeroOmitted(t *testing.T) {
	moves := []string{"e4"}
	records := []analysis.AnnotatedRecord{
		{Ply: 1, SAN: "e4", After: &models.CloudEval{Mate: intPtr(0)}, Category: models.CategoryAccurate},
	}

	detail, err := analysis.MoveEvalAt("mate0002", moves, records, 1)

	require.NoError(t, err)
	assert.Nil(t, detail.DeltaMate)
	require.NotNil(t, detail.AfterMate)
	assert.Equal(t, 0, *detail.AfterMate)
}

func TestMoveEvalAt_UnannotatedPly(t *testing.T) {
	moves := []string{"e4", "e5"}

	detail, err := analysis.MoveEvalAt("plain001", moves, nil, 1)

	require.NoError(t, err)
	assert.Equal(t, models.CategoryAccurate, detail.Category)
	assert.Nil(t, detail.BeforeCP)
	assert.Nil(t, detail.AfterCP)
	assert.Nil(t, detail.DeltaCP)
	assert.NotEmpty(t, detail.FENBefore)
	assert.NotEmpty(t, detail.FENAfter)
}

func TestMoveEvalAt_PlyOutOfRange(t *testing.T) {
	moves := []string{"e4", "e5"}

	_, err := analysis.MoveEvalAt("range001", moves, nil, 0)
	assert.Error(t, err)

	_, err = analysis.MoveEvalAt("range001", moves, nil, 3)
	assert.Error(t, err)
}

func TestMoveEvalAt_ReplayFailure(t *testing.T) {
	_, err := analysis.MoveEvalAt("broken01", []string{"e4", "Qq9"}, nil, 2)
	assert.Error(t, err)
}
