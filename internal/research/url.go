package research

import (
	"fmt"
	"net/url"
)

// AnalysisURL returns the public analysis board for a position.
func AnalysisURL(fen string) string {
	return "https://lichess.org/analysis?fen=" + url.QueryEscape(fen)
}

// CaptureURL returns a board image URL for a position, rendered by the
// chess.com dynamic board service.
func CaptureURL(fen string) string {
	return fmt.Sprintf("https://www.chess.com/dynboard?fen=%s&board=green&piece=neo&size=3", url.QueryEscape(fen))
}
