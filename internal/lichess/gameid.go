package lichess

import (
	"regexp"
	"strings"

	"github.com/replaylens/replaylens/internal/apperr"
)

// Patterns tried in order of specificity. Game ids are case-sensitive;
// canonical ids are 8 characters, but export URLs and 12-character private
// ids also occur.
var (
	exportIDRe = regexp.MustCompile(`/game/export/([a-zA-Z0-9]{4,20})`)
	shortIDRe  = regexp.MustCompile(`lichess\.org/([a-zA-Z0-9]{8})(?:/|$)`)
	longIDRe   = regexp.MustCompile(`lichess\.org/([a-zA-Z0-9]{12})(?:/|$)`)
	looseIDRe  = regexp.MustCompile(`lichess\.org/([a-zA-Z0-9]{4,20})(?:/|$)`)
	anyIDRe    = regexp.MustCompile(`lichess\.org/([a-zA-Z0-9]+)`)
	bareIDRe   = regexp.MustCompile(`^[a-zA-Z0-9]{4,20}$`)
)

// Path segments that look like ids but never are.
var excludedSegments = map[string]struct{}{
	"game":     {},
	"export":   {},
	"api":      {},
	"study":    {},
	"training": {},
	"black":    {},
	"white":    {},
	"analysis": {},
}

// ExtractGameID pulls the game id out of a Lichess URL or accepts a bare id.
// Trailing path segments like /black or /white are ignored; 12-character ids
// are truncated to their 8-character public form.
func ExtractGameID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if id, ok := matchID(exportIDRe, raw); ok {
		return id, nil
	}
	if id, ok := matchID(shortIDRe, raw); ok {
		return id, nil
	}
	if id, ok := matchID(longIDRe, raw); ok {
		return id[:8], nil
	}
	if id, ok := matchID(looseIDRe, raw); ok {
		return id, nil
	}
	if id, ok := matchID(anyIDRe, raw); ok && len(id) >= 4 && len(id) <= 20 {
		return id, nil
	}
	if bareIDRe.MatchString(raw) {
		return raw, nil
	}

	return "", apperr.NewValidationError("gameUrl", "not a Lichess game URL or id")
}

func matchID(re *regexp.Regexp, raw string) (string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	id := m[1]
	if _, excluded := excludedSegments[id]; excluded {
		return "", false
	}
	return id, true
}
