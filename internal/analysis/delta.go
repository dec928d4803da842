package analysis

import "github.com/replaylens/replaylens/internal/models"

// MateLostDelta is the sentinel mate delta recorded when a forced mate
// existed before the move and is gone after it.
const MateLostDelta = -999

// Delta computes the evaluation swing a move produced. When either
// evaluation carries a mate score the result is mate-denominated and the
// centipawn delta is nil: a mate appearing scores as the new mate count, a
// mate disappearing as MateLostDelta, and mate on both sides as their
// difference. Pure centipawn deltas treat a missing value as zero and are
// expressed as gain for the side that just moved.
func Delta(before, after models.CloudEval, moverIsWhite bool) (deltaCP, deltaMate *int) {
	if before.Mate != nil || after.Mate != nil {
		var d int
		switch {
		case before.Mate == nil:
			d = *after.Mate
		case after.Mate == nil:
			d = MateLostDelta
		default:
			d = *after.Mate - *before.Mate
		}
		return nil, &d
	}

	var beforeCP, afterCP int
	if before.CP != nil {
		beforeCP = *before.CP
	}
	if after.CP != nil {
		afterCP = *after.CP
	}
	d := afterCP - beforeCP
	if !moverIsWhite {
		d = -d
	}
	return &d, nil
}
