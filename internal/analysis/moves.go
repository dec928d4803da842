package analysis

import (
	"fmt"

	"github.com/corentings/chess/v2"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// UCIToSAN renders a UCI move token (e.g. "e2e4", "e7e8q") as SAN relative
// to the position in fen.
func UCIToSAN(fen, uci string) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("parse fen: %w", err)
	}
	game := chess.NewGame(opt)

	move, err := chess.UCINotation{}.Decode(game.CurrentPosition(), uci)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", uci, err)
	}
	return chess.AlgebraicNotation{}.Encode(game.CurrentPosition(), move), nil
}

// ReplayFENs applies the SAN move list to a fresh board and returns the FEN
// reached after each move. A move that fails to apply yields nil and leaves
// the board where it was, so later moves are still tried against the last
// good position.
func ReplayFENs(moves []string) []*string {
	fens := make([]*string, 0, len(moves))
	game := chess.NewGame()
	for _, san := range moves {
		if err := game.PushMove(san, nil); err != nil {
			fens = append(fens, nil)
			continue
		}
		fen := game.CurrentPosition().String()
		fens = append(fens, &fen)
	}
	return fens
}

// FENAtPly replays the first ply moves of the list and returns the reached
// position's FEN. Ply 0 is the starting position.
func FENAtPly(moves []string, ply int) (string, error) {
	if ply < 0 || ply > len(moves) {
		return "", fmt.Errorf("ply %d out of range for %d moves", ply, len(moves))
	}
	game := chess.NewGame()
	for i := 0; i < ply; i++ {
		if err := game.PushMove(moves[i], nil); err != nil {
			return "", fmt.Errorf("move %d (%s) does not apply: %w", i+1, moves[i], err)
		}
	}
	return game.CurrentPosition().String(), nil
}

// FENAtPlyLenient replays the first ply moves, skipping any that do not
// apply, and returns the reached position's FEN.
func FENAtPlyLenient(moves []string, ply int) string {
	if ply > len(moves) {
		ply = len(moves)
	}
	game := chess.NewGame()
	for i := 0; i < ply; i++ {
		_ = game.PushMove(moves[i], nil)
	}
	return game.CurrentPosition().String()
}
