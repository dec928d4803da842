package pgn

import (
	"regexp"
	"strconv"
	"strings"
)

var headerRe = regexp.MustCompile(`\[(\w+)\s+"([^"]+)"\]`)

// ParseTags extracts PGN header tag pairs into a map.
func ParseTags(pgnText string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(pgnText, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 {
			out[m[1]] = m[2]
		}
	}
	return out
}

// ParseResult maps a PGN Result tag to the winning side: "white", "black",
// "draw", or "*" when the outcome is undetermined.
func ParseResult(value string) string {
	switch value {
	case "1-0":
		return "white"
	case "0-1":
		return "black"
	case "1/2-1/2":
		return "draw"
	default:
		return "*"
	}
}

// ParseRating converts an Elo tag value to a rating. Lichess exports write
// "?" for players without an established rating; that and anything
// non-numeric map to no rating.
func ParseRating(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" || value == "?" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
