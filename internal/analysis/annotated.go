package analysis

import (
	"fmt"
	"math"

	"github.com/replaylens/replaylens/internal/models"
)

// AnnotatedRecord is one half-move of an annotated PGN with its evaluation
// context chained in: Before is the previous entry's After. Ply 0 carries a
// start-position evaluation when the export has one.
type AnnotatedRecord struct {
	Ply      int
	SAN      string
	Before   *models.CloudEval
	After    *models.CloudEval
	Category string
}

// ChainAnnotated links the raw annotated moves into records: each move's
// before-eval is the previous entry's after-eval, and the category comes
// from the annotated thresholds. The first move has no before-eval by
// construction and always reads accurate.
func ChainAnnotated(moves []models.AnnotatedMove) []AnnotatedRecord {
	var out []AnnotatedRecord
	for _, m := range moves {
		eval := annotatedEval(m)
		if m.Ply == 0 {
			out = append(out, AnnotatedRecord{
				Ply:      0,
				Before:   eval,
				After:    eval,
				Category: models.CategoryAccurate,
			})
			continue
		}

		var before *models.CloudEval
		if m.Ply > 1 && len(out) > 0 {
			before = out[len(out)-1].After
		}
		out = append(out, AnnotatedRecord{
			Ply:      m.Ply,
			SAN:      m.SAN,
			Before:   before,
			After:    eval,
			Category: CategorizeAnnotated(before, eval),
		})
	}
	return out
}

func annotatedEval(m models.AnnotatedMove) *models.CloudEval {
	if m.CP == nil && m.Mate == nil {
		return nil
	}
	return &models.CloudEval{CP: m.CP, Mate: m.Mate}
}

// PlayerStatsFor computes one side's category counts, accuracy percentage
// and overall assessment from the chained records. White plays odd plies;
// the ply-0 node belongs to neither side.
func PlayerStatsFor(records []AnnotatedRecord, isWhite bool) models.PlayerStats {
	var s models.PlayerStats
	for _, rec := range records {
		if rec.Ply <= 0 || (rec.Ply%2 == 1) != isWhite {
			continue
		}
		s.Total++
		switch rec.Category {
		case models.CategoryAccurate:
			s.Accurate++
		case models.CategoryGood:
			s.Good++
		case models.CategoryInaccuracy:
			s.Inaccuracy++
		case models.CategoryMistake:
			s.Mistake++
		case models.CategoryBlunder:
			s.Blunder++
		}
	}

	if s.Total == 0 {
		s.Assessment = "N/A"
		return s
	}

	accuracy := float64(s.Accurate+s.Good) / float64(s.Total) * 100
	switch {
	case accuracy >= 90:
		s.Assessment = "excellent"
	case accuracy >= 80:
		s.Assessment = "good"
	case accuracy >= 70:
		s.Assessment = "fair"
	case s.Blunder > s.Mistake:
		s.Assessment = "struggled"
	default:
		s.Assessment = "inconsistent"
	}
	s.Accuracy = math.Round(accuracy*10) / 10

	return s
}

// GameStatsFrom pairs both sides' stats for one game.
func GameStatsFrom(gameID string, records []AnnotatedRecord) models.GameStats {
	white := PlayerStatsFor(records, true)
	black := PlayerStatsFor(records, false)
	return models.GameStats{
		GameID:     gameID,
		White:      white,
		Black:      black,
		TotalMoves: white.Total + black.Total,
	}
}

// MoveEvalAt builds the single-ply evaluation view: the annotated evals
// around the ply'th move, the replayed before/after FENs, and the
// centipawn delta expressed from the mover's perspective (sign-flipped for
// Black). A ply with no annotation still resolves, with empty evals and an
// accurate category.
func MoveEvalAt(gameID string, moves []string, records []AnnotatedRecord, ply int) (models.MoveEvalDetail, error) {
	if ply < 1 || ply > len(moves) {
		return models.MoveEvalDetail{}, fmt.Errorf("ply %d out of range: game has %d moves", ply, len(moves))
	}

	fenBefore, err := FENAtPly(moves, ply-1)
	if err != nil {
		return models.MoveEvalDetail{}, err
	}
	fenAfter, err := FENAtPly(moves, ply)
	if err != nil {
		return models.MoveEvalDetail{}, err
	}

	moverIsWhite := ply%2 == 1
	player := models.ColorWhite
	if !moverIsWhite {
		player = models.ColorBlack
	}

	detail := models.MoveEvalDetail{
		GameID:    gameID,
		Ply:       ply,
		Move:      moves[ply-1],
		Player:    player,
		Category:  models.CategoryAccurate,
		FENBefore: fenBefore,
		FENAfter:  fenAfter,
	}

	for i := range records {
		rec := &records[i]
		if rec.Ply != ply {
			continue
		}
		detail.Category = rec.Category
		if rec.Before != nil {
			detail.BeforeCP = rec.Before.CP
			detail.BeforeMate = rec.Before.Mate
		}
		if rec.After != nil {
			detail.AfterCP = rec.After.CP
			detail.AfterMate = rec.After.Mate
			if rec.After.Mate != nil && *rec.After.Mate != 0 {
				detail.DeltaMate = rec.After.Mate
			}
		}
		if detail.BeforeCP != nil && detail.AfterCP != nil {
			d := *detail.AfterCP - *detail.BeforeCP
			if !moverIsWhite {
				d = -d
			}
			detail.DeltaCP = &d
		}
		break
	}

	return detail, nil
}
