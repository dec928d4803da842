package models

import "fmt"

// CloudEval is an engine assessment of a single position as reported by the
// cloud evaluation service. CP and Mate are mutually exclusive in practice;
// when both arrive, Mate takes precedence everywhere downstream.
type CloudEval struct {
	FEN   string   `json:"fen"`
	CP    *int     `json:"cp,omitempty"`
	Mate  *int     `json:"mate,omitempty"`
	Depth int      `json:"depth"`
	Nodes int      `json:"nodes"`
	PV    []string `json:"pv"`
}

// ZeroEval builds the neutral placeholder substituted when a position's
// evaluation cannot be fetched.
func ZeroEval(fen string) CloudEval {
	zero := 0
	return CloudEval{FEN: fen, CP: &zero, PV: []string{}}
}

// HasMate reports whether the evaluation carries a forced-mate count.
func (e CloudEval) HasMate() bool {
	return e.Mate != nil
}

// HasScore reports whether the evaluation carries any usable number.
func (e CloudEval) HasScore() bool {
	return e.Mate != nil || e.CP != nil
}

// BestUCI returns the first principal-variation move, or "" when the PV is
// empty.
func (e CloudEval) BestUCI() string {
	if len(e.PV) == 0 {
		return ""
	}
	return e.PV[0]
}

// Format renders the evaluation for human-readable summaries: "M3" for mate
// in three, "+0.3" for +30 centipawns, "N/A" when nothing is known.
func (e CloudEval) Format() string {
	if e.Mate != nil {
		return fmt.Sprintf("M%d", *e.Mate)
	}
	if e.CP != nil {
		return fmt.Sprintf("%+.1f", float64(*e.CP)/100)
	}
	return "N/A"
}
