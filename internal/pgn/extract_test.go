package pgn_test

import (
	"testing"

	"github.com/replaylens/replaylens/internal/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMoves_PlainGame(t *testing.T) {
	pgnText := `[Event "Rated Blitz game"]
[Site "https://lichess.org/abcd1234"]
[White "Player1"]
[Black "Player2"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0`

	moves := pgn.ExtractMoves(pgnText)

	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}, moves)
}

func TestExtractMoves_CommentsAndClocks(t *testing.T) {
	pgnText := `[Event "Rated Blitz game"]
[Result "0-1"]

1. e4 { [%eval 0.17] [%clk 0:03:00] } 1... c5 { [%eval 0.19] [%clk 0:03:00] } 2. Nf3 { [%eval 0.25] [%clk 0:02:58] } 0-1`

	moves := pgn.ExtractMoves(pgnText)

	assert.Equal(t, []string{"e4", "c5", "Nf3"}, moves)
}

func TestExtractMoves_CanonicalDisambiguation(t *testing.T) {
	// Both rooks can reach h3 after move 3, so the re-render must keep
	// the file disambiguator from the board state, not the source text.
	pgnText := `1. a4 a5 2. h4 h5 3. Ra3 Ra6 4. Rhh3 *`

	moves := pgn.ExtractMoves(pgnText)

	require.Len(t, moves, 7)
	assert.Equal(t, "Rhh3", moves[6])
}

func TestExtractMoves_CheckmateSuffix(t *testing.T) {
	pgnText := `1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0`

	moves := pgn.ExtractMoves(pgnText)

	require.Len(t, moves, 7)
	assert.Equal(t, "Qxf7#", moves[6])
}

func TestExtractMoves_UCIMoveList(t *testing.T) {
	moves := pgn.ExtractMoves("e2e4 e7e5 g1f3")

	assert.Equal(t, []string{"e4", "e5", "Nf3"}, moves)
}

func TestExtractMoves_EmptyInput(t *testing.T) {
	assert.Empty(t, pgn.ExtractMoves(""))
	assert.Empty(t, pgn.ExtractMoves("   \n\t  "))
}

func TestExtractMoves_FallbackOnIllegalMove(t *testing.T) {
	// Ke7 is illegal, so the structured parse rejects the document and
	// the lexical pass takes over without validating legality.
	pgnText := `[Event "broken"]

1. e4 e5 2. Ke7 d4 1-0`

	moves := pgn.ExtractMoves(pgnText)

	assert.Equal(t, []string{"e4", "e5", "Ke7", "d4"}, moves)
}

func TestExtractMoves_FallbackStripsCommentary(t *testing.T) {
	pgnText := `1. e4 {good start {really} yes} e5 2. Ke7+`

	moves := pgn.ExtractMoves(pgnText)

	assert.Equal(t, []string{"e4", "e5", "Ke7"}, moves)
}

func TestReconstructPGN_RoundTrip(t *testing.T) {
	tags := map[string]string{
		"White":  "alice",
		"Black":  "bob",
		"Result": "1-0",
	}

	pgnText, err := pgn.ReconstructPGN(tags, []string{"e2e4", "e7e5", "g1f3"})

	require.NoError(t, err)
	assert.Contains(t, pgnText, `[White "alice"]`)
	assert.Contains(t, pgnText, `[Black "bob"]`)
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, pgn.ExtractMoves(pgnText))
}

func TestReconstructPGN_StopsAtInvalidMove(t *testing.T) {
	pgnText, err := pgn.ReconstructPGN(nil, []string{"e2e4", "e7e5", "zz99"})

	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5"}, pgn.ExtractMoves(pgnText))
}

func TestReconstructPGN_NoMoves(t *testing.T) {
	_, err := pgn.ReconstructPGN(nil, nil)

	assert.Error(t, err)
}
