package lichess

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/pgn"
	"github.com/replaylens/replaylens/internal/stats"
)

// fetchStrategy is one way of obtaining a game's PGN text. Strategies run in
// order; any failure short of a private-game refusal just moves on to the
// next one.
type fetchStrategy struct {
	name string
	run  func(ctx context.Context, gameID string) (string, error)
}

func (c *Client) strategies() []fetchStrategy {
	return []fetchStrategy{
		{"export", func(ctx context.Context, id string) (string, error) {
			return c.fetchExport(ctx, fmt.Sprintf("%s/game/export/%s", c.baseURL, id))
		}},
		{"export-plain", func(ctx context.Context, id string) (string, error) {
			return c.fetchExport(ctx, fmt.Sprintf("%s/game/export/%s?evals=0&clocks=0", c.baseURL, id))
		}},
		{"export-literate", func(ctx context.Context, id string) (string, error) {
			return c.fetchExport(ctx, fmt.Sprintf("%s/game/export/%s?literate=1", c.baseURL, id))
		}},
		{"html-scrape", c.scrapeGamePage},
		{"json-api", c.fetchGameJSON},
		{"export-alternates", c.fetchAlternates},
	}
}

// FetchGame retrieves a game record, walking the strategy chain until one
// produces usable PGN text. A 403 from the export endpoint aborts the chain
// immediately: the game is private and no amount of scraping will help.
func (c *Client) FetchGame(ctx context.Context, gameID string) (models.GameRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("game_id", gameID)
	start := time.Now()
	c.collector.IncCounter(stats.MetricGameFetches, 1)

	for _, strat := range c.strategies() {
		if err := ctx.Err(); err != nil {
			return models.GameRecord{}, err
		}

		pgnText, err := strat.run(ctx, gameID)
		if err != nil {
			if apperr.IsNotFound(err) {
				c.collector.IncCounter(stats.MetricGameFetchFailures, 1)
				return models.GameRecord{}, err
			}
			log.Debug("strategy %s failed: %v", strat.name, err)
			continue
		}
		if strings.TrimSpace(pgnText) == "" {
			log.Debug("strategy %s returned empty PGN", strat.name)
			continue
		}

		log.Info("fetched game via %s strategy in %v (PGN length %d)", strat.name, time.Since(start), len(pgnText))
		return buildGameRecord(gameID, pgnText), nil
	}

	c.collector.IncCounter(stats.MetricGameFetchFailures, 1)
	return models.GameRecord{}, apperr.NewNotFoundError("game", gameID)
}

// FetchAnnotatedPGN retrieves the export with [%eval] annotations included.
func (c *Client) FetchAnnotatedPGN(ctx context.Context, gameID string) (string, error) {
	pgnText, err := c.fetchExport(ctx, fmt.Sprintf("%s/game/export/%s?evals=1", c.baseURL, gameID))
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", err
		}
		return "", apperr.NewNotFoundError("annotated game", gameID)
	}
	return pgnText, nil
}

// fetchExport GETs one export URL. Connect failures are retried once after a
// short pause; 403 means the game is private or the caller's IP is blocked.
func (c *Client) fetchExport(ctx context.Context, reqURL string) (string, error) {
	status, body, err := c.getText(ctx, reqURL)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		if strings.TrimSpace(body) == "" {
			return "", fmt.Errorf("empty response from %s", reqURL)
		}
		return body, nil
	case http.StatusForbidden:
		return "", &apperr.AppError{
			Code:    apperr.CodeNotFound,
			Message: "game is private or access is restricted; an API token from a participant may be required",
			Status:  http.StatusNotFound,
		}
	default:
		return "", fmt.Errorf("export status %d", status)
	}
}

// getText performs a GET with auth headers and returns status plus body.
// Transport-level failures get one retry after a 1s pause.
func (c *Client) getText(ctx context.Context, reqURL string) (int, string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := c.newRequest(ctx, reqURL)
		if err != nil {
			return 0, "", err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt == 0 {
				timer := time.NewTimer(time.Second)
				select {
				case <-ctx.Done():
					timer.Stop()
					return 0, "", ctx.Err()
				case <-timer.C:
				}
				continue
			}
			break
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return 0, "", err
		}
		return resp.StatusCode, string(body), nil
	}
	return 0, "", lastErr
}

// Patterns for PGN text embedded in a game page. Candidates must carry at
// least one recognizable header tag to count.
var embeddedPGNRes = []*regexp.Regexp{
	regexp.MustCompile(`data-pgn="([^"]+)"`),
	regexp.MustCompile(`data-pgn='([^']+)'`),
	regexp.MustCompile(`"pgn"\s*:\s*"([^"]+)"`),
}

// Patterns for raw UCI move lists embedded in page markup or scripts.
var embeddedMovesRes = []*regexp.Regexp{
	regexp.MustCompile(`["']moves["']\s*:\s*["']([a-h][0-9][a-h][0-9][qrbn]?(?:\s+[a-h][0-9][a-h][0-9][qrbn]?)+)["']`),
	regexp.MustCompile(`data-moves=["']([^"']+)["']`),
	regexp.MustCompile(`"moves"\s*:\s*"([^"]+)"`),
}

// scrapeGamePage pulls the public game page and looks for embedded PGN text
// or, failing that, a raw UCI move list to reconstruct a PGN from.
func (c *Client) scrapeGamePage(ctx context.Context, gameID string) (string, error) {
	status, page, err := c.getText(ctx, fmt.Sprintf("%s/%s", c.baseURL, gameID))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("game page status %d", status)
	}

	for _, re := range embeddedPGNRes {
		for _, m := range re.FindAllStringSubmatch(page, -1) {
			candidate := html.UnescapeString(m[1])
			candidate = strings.ReplaceAll(candidate, `\n`, "\n")
			if strings.Contains(candidate, "[Event") || strings.Contains(candidate, "[White") {
				return candidate, nil
			}
		}
	}

	for _, re := range embeddedMovesRes {
		for _, m := range re.FindAllStringSubmatch(page, -1) {
			ucis := strings.Fields(html.UnescapeString(m[1]))
			if !looksLikeUCIList(ucis) {
				continue
			}
			tags := map[string]string{
				"Event": "Lichess Game",
				"Site":  fmt.Sprintf("%s/%s", c.baseURL, gameID),
			}
			if reconstructed, err := pgn.ReconstructPGN(tags, ucis); err == nil {
				return reconstructed, nil
			}
		}
	}

	return "", fmt.Errorf("no PGN data found in game page")
}

// looksLikeUCIList checks the first few tokens for UCI shape (e2e4, g1f3).
func looksLikeUCIList(tokens []string) bool {
	valid := 0
	for i, tok := range tokens {
		if i >= 10 {
			break
		}
		if len(tok) >= 4 && tok[0] >= 'a' && tok[0] <= 'h' && tok[1] >= '1' && tok[1] <= '8' {
			valid++
		}
	}
	return valid >= 2
}

type gamePlayerJSON struct {
	User *struct {
		Name string `json:"name"`
	} `json:"user"`
	Rating *int `json:"rating"`
}

type gameJSON struct {
	Players struct {
		White gamePlayerJSON `json:"white"`
		Black gamePlayerJSON `json:"black"`
	} `json:"players"`
	Opening *struct {
		Name string `json:"name"`
	} `json:"opening"`
	Winner string          `json:"winner"`
	PGN    string          `json:"pgn"`
	Moves  json.RawMessage `json:"moves"`
}

// fetchGameJSON tries the JSON game endpoint variants, preferring a response
// that carries moves, and reconstructs a PGN from them.
func (c *Client) fetchGameJSON(ctx context.Context, gameID string) (string, error) {
	variants := []string{
		fmt.Sprintf("%s/api/game/%s?moves=1", c.baseURL, gameID),
		fmt.Sprintf("%s/api/game/%s?withMoves=1", c.baseURL, gameID),
		fmt.Sprintf("%s/api/game/%s", c.baseURL, gameID),
	}

	var fallback *gameJSON
	for _, reqURL := range variants {
		status, body, err := c.getText(ctx, reqURL)
		if err != nil || status != http.StatusOK {
			continue
		}
		var payload gameJSON
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			continue
		}
		if len(payload.Moves) > 0 {
			if reconstructed, err := reconstructFromJSON(c.baseURL, gameID, payload); err == nil {
				return reconstructed, nil
			}
		}
		if fallback == nil {
			fallback = &payload
		}
	}

	if fallback != nil {
		if strings.Contains(fallback.PGN, "[Event") || strings.Contains(fallback.PGN, "[White") {
			return fallback.PGN, nil
		}
	}
	return "", fmt.Errorf("game JSON endpoints had no usable moves or PGN")
}

// reconstructFromJSON rebuilds a PGN document from the JSON response's UCI
// move list and player metadata.
func reconstructFromJSON(baseURL, gameID string, payload gameJSON) (string, error) {
	ucis := normalizePV(payload.Moves)
	if len(ucis) == 0 {
		return "", fmt.Errorf("no moves in game JSON")
	}

	tags := map[string]string{
		"Event": "Lichess Game",
		"Site":  fmt.Sprintf("%s/%s", baseURL, gameID),
		"White": playerName(payload.Players.White),
		"Black": playerName(payload.Players.Black),
	}
	if payload.Players.White.Rating != nil {
		tags["WhiteElo"] = strconv.Itoa(*payload.Players.White.Rating)
	}
	if payload.Players.Black.Rating != nil {
		tags["BlackElo"] = strconv.Itoa(*payload.Players.Black.Rating)
	}
	if payload.Opening != nil && payload.Opening.Name != "" {
		tags["Opening"] = payload.Opening.Name
	}
	switch payload.Winner {
	case "white":
		tags["Result"] = "1-0"
	case "black":
		tags["Result"] = "0-1"
	default:
		tags["Result"] = "1/2-1/2"
	}

	return pgn.ReconstructPGN(tags, ucis)
}

func playerName(p gamePlayerJSON) string {
	if p.User != nil && p.User.Name != "" {
		return p.User.Name
	}
	return "Unknown"
}

// fetchAlternates tries the historical export URL shapes as a last resort.
func (c *Client) fetchAlternates(ctx context.Context, gameID string) (string, error) {
	alternates := []string{
		fmt.Sprintf("%s/game/export/%s?format=pgn", c.baseURL, gameID),
		fmt.Sprintf("%s/%s.pgn", c.baseURL, gameID),
		fmt.Sprintf("%s/game/%s/pgn", c.baseURL, gameID),
	}
	for _, reqURL := range alternates {
		status, body, err := c.getText(ctx, reqURL)
		if err != nil || status != http.StatusOK {
			continue
		}
		head := body
		if len(head) > 500 {
			head = head[:500]
		}
		if strings.HasPrefix(strings.TrimSpace(body), "[") ||
			strings.Contains(head, "[Event") || strings.Contains(head, "[White") {
			return body, nil
		}
	}
	return "", fmt.Errorf("no alternate endpoint produced PGN")
}

// buildGameRecord parses fetched PGN text into the game record, applying
// the documented tag defaults.
func buildGameRecord(gameID, pgnText string) models.GameRecord {
	tags := pgn.ParseTags(pgnText)

	record := models.GameRecord{
		GameID:  gameID,
		White:   models.Player{Username: "Unknown"},
		Black:   models.Player{Username: "Unknown"},
		PGN:     pgnText,
		Opening: tags["Opening"],
		Result:  pgn.ParseResult(tags["Result"]),
		Moves:   pgn.ExtractMoves(pgnText),
	}
	if name := tags["White"]; name != "" {
		record.White.Username = name
	}
	if name := tags["Black"]; name != "" {
		record.Black.Username = name
	}
	record.White.Rating = pgn.ParseRating(tags["WhiteElo"])
	record.Black.Rating = pgn.ParseRating(tags["BlackElo"])

	return record
}
