package analysis

import "github.com/replaylens/replaylens/internal/models"

// Categorize buckets a move by its evaluation delta. Mate-denominated
// deltas dominate: letting a forced mate slip is a blunder no matter the
// centipawn picture, creating one is good. With neither delta known the
// move reads as accurate.
func Categorize(deltaCP, deltaMate *int) string {
	if deltaMate != nil {
		switch {
		case *deltaMate < 0:
			return models.CategoryBlunder
		case *deltaMate > 0:
			return models.CategoryGood
		default:
			return models.CategoryAccurate
		}
	}

	if deltaCP == nil {
		return models.CategoryAccurate
	}

	abs := *deltaCP
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 10:
		return models.CategoryAccurate
	case abs < 50:
		return models.CategoryGood
	case abs < 100:
		return models.CategoryInaccuracy
	case abs < 300:
		return models.CategoryMistake
	default:
		return models.CategoryBlunder
	}
}

// CategorizeAnnotated buckets a move using the [%eval] scores carried by
// annotated PGN exports. These deltas stay in White's perspective and use
// wider buckets than live cloud evals; the two scales are calibrated to
// their own evaluation source and are not interchangeable. Mate scores
// carry no usable distance delta here, so any mate involvement reads as
// accurate, as does incomplete data.
func CategorizeAnnotated(before, after *models.CloudEval) string {
	if before == nil || after == nil {
		return models.CategoryAccurate
	}
	if before.Mate != nil || after.Mate != nil {
		return models.CategoryAccurate
	}
	if before.CP == nil || after.CP == nil {
		return models.CategoryAccurate
	}

	delta := *after.CP - *before.CP
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta < 50:
		return models.CategoryAccurate
	case delta < 100:
		return models.CategoryGood
	case delta < 200:
		return models.CategoryInaccuracy
	case delta < 300:
		return models.CategoryMistake
	default:
		return models.CategoryBlunder
	}
}
