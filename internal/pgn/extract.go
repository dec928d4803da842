// Package pgn extracts moves, header tags and embedded evaluation
// annotations from PGN documents, tolerating the malformed exports the
// fallback fetch strategies produce.
package pgn

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

var (
	// braceCommentRe matches {...} commentary including one level of
	// nested braces, which lichess exports produce around clock tags.
	braceCommentRe = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
	bracketTagRe   = regexp.MustCompile(`\[[^\]]*\]`)
	moveNumberRe   = regexp.MustCompile(`\d+\.(?:\.\.)?`)
)

// ExtractMoves converts PGN text into the game's main-line moves in
// canonical algebraic notation. The document is parsed as a game tree and
// every move is re-rendered against the position it was played from, so
// disambiguation comes out canonical no matter how the source wrote it.
// Input that fails the structured parse goes through a lexical pass that
// recovers whatever move tokens it can. Empty or whitespace-only input
// yields an empty sequence.
func ExtractMoves(pgnText string) []string {
	if strings.TrimSpace(pgnText) == "" {
		return nil
	}
	if moves, err := extractStructured(pgnText); err == nil {
		return moves
	}
	return extractLexical(pgnText)
}

func extractStructured(pgnText string) ([]string, error) {
	opt, err := chess.PGN(strings.NewReader(pgnText))
	if err != nil {
		return nil, err
	}
	game := chess.NewGame(opt)
	positions := game.Positions()
	moves := game.Moves()

	sans := make([]string, 0, len(moves))
	for i, mv := range moves {
		if i >= len(positions) {
			break
		}
		sans = append(sans, chess.AlgebraicNotation{}.Encode(positions[i], mv))
	}
	return sans, nil
}

var resultTokens = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// extractLexical recovers move tokens without a board: strip comments and
// tag pairs, split on move-number markers, keep tokens that look like
// algebraic notation. No legality checking.
func extractLexical(pgnText string) []string {
	text := braceCommentRe.ReplaceAllString(movetext(pgnText), "")
	text = bracketTagRe.ReplaceAllString(text, "")

	var moves []string
	for _, chunk := range moveNumberRe.Split(text, -1) {
		for _, tok := range strings.Fields(chunk) {
			if resultTokens[tok] {
				continue
			}
			tok = strings.TrimRight(tok, "+#")
			if tok == "" || strings.ContainsAny(tok, "[]{}%") {
				continue
			}
			c := tok[0]
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				moves = append(moves, tok)
			}
		}
	}
	return moves
}

// movetext joins the non-tag lines of a PGN document into one line.
func movetext(pgnText string) string {
	var b strings.Builder
	for _, line := range strings.Split(pgnText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		b.WriteString(" ")
		b.WriteString(line)
	}
	return b.String()
}

// FormatMovetext renders a SAN move list as numbered movetext without
// headers or a result token, e.g. "1. e4 c5 2. Nf3".
func FormatMovetext(moves []string) string {
	var b strings.Builder
	for i, san := range moves {
		if i%2 == 0 {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(i/2 + 1))
			b.WriteString(". ")
			b.WriteString(san)
		} else {
			b.WriteByte(' ')
			b.WriteString(san)
		}
	}
	return b.String()
}

// ReconstructPGN builds a PGN document from header tags and a raw UCI move
// list, the shape the JSON game endpoint returns. Moves are applied in
// order; the first illegal or unparseable token ends the move list there
// rather than discarding the document.
func ReconstructPGN(tags map[string]string, ucis []string) (string, error) {
	if len(ucis) == 0 {
		return "", errors.New("no moves to reconstruct")
	}
	game := chess.NewGame()
	for _, uci := range ucis {
		if err := game.PushNotationMove(uci, chess.UCINotation{}, nil); err != nil {
			break
		}
	}
	for k, v := range tags {
		game.AddTagPair(k, v)
	}
	return game.String(), nil
}
