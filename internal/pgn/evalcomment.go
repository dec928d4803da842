package pgn

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/replaylens/replaylens/internal/models"
)

var evalRe = regexp.MustCompile(`\[%eval\s+([^\]]+)\]`)

// ParseEvalComment reads the [%eval ...] annotation out of a PGN comment.
// Values starting with "#" are mate distances; anything else is a pawn
// score, converted to centipawns by truncation. ok reports whether the
// comment carried a parseable evaluation.
func ParseEvalComment(comment string) (cp, mate *int, ok bool) {
	m := evalRe.FindStringSubmatch(comment)
	if m == nil {
		return nil, nil, false
	}
	value := strings.TrimSpace(m[1])
	if strings.HasPrefix(value, "#") {
		n, err := strconv.Atoi(strings.TrimPrefix(value, "#"))
		if err != nil {
			return nil, nil, false
		}
		return nil, &n, true
	}
	pawns, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, nil, false
	}
	n := int(pawns * 100)
	return &n, nil, true
}

// AnnotatedMoves walks an eval-annotated PGN export (lichess ?evals=1) and
// returns every main-line move with the [%eval] score attached to it, plus
// a leading ply-0 entry when the document evaluates the starting position.
// Documents that fail the structured parse yield no annotations.
func AnnotatedMoves(pgnText string) []models.AnnotatedMove {
	sans, err := extractStructured(pgnText)
	if err != nil {
		return nil
	}

	comments := scanComments(movetext(pgnText))

	var out []models.AnnotatedMove
	if cp, mate, ok := ParseEvalComment(comments[-1]); ok {
		out = append(out, models.AnnotatedMove{Ply: 0, CP: cp, Mate: mate})
	}
	for i, san := range sans {
		cp, mate, _ := ParseEvalComment(comments[i])
		out = append(out, models.AnnotatedMove{Ply: i + 1, SAN: san, CP: cp, Mate: mate})
	}
	return out
}

// scanComments pairs brace comments with the index of the main-line move
// they follow. Index -1 holds commentary appearing before the first move.
// Variation lines in parentheses are skipped so their comments never shift
// the pairing.
func scanComments(text string) map[int]string {
	comments := map[int]string{}
	idx := -1
	depth := 0
	for i := 0; i < len(text); {
		switch c := text[i]; c {
		case '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				if depth == 0 {
					addComment(comments, idx, text[i+1:])
				}
				return comments
			}
			if depth == 0 {
				addComment(comments, idx, text[i+1:i+1+end])
			}
			i += end + 2
		case '(':
			depth++
			i++
		case ')':
			if depth > 0 {
				depth--
			}
			i++
		case ' ', '\t':
			i++
		default:
			start := i
			for i < len(text) && !isTokenBoundary(text[i]) {
				i++
			}
			if depth == 0 && isMoveToken(text[start:i]) {
				idx++
			}
		}
	}
	return comments
}

func isTokenBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '{' || c == '(' || c == ')'
}

// isMoveToken reports whether a movetext token is an actual move rather
// than a move number, NAG, or result marker.
func isMoveToken(tok string) bool {
	if tok == "" || resultTokens[tok] || tok[0] == '$' {
		return false
	}
	tok = strings.TrimLeft(tok, "0123456789.")
	if tok == "" {
		return false
	}
	c := tok[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func addComment(m map[int]string, idx int, s string) {
	if m[idx] == "" {
		m[idx] = s
	} else {
		m[idx] += " " + s
	}
}
