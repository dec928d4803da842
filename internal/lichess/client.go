// Package lichess talks to the Lichess API: cloud engine evaluations, PGN
// exports, and the fallback extraction strategies for games the canonical
// export endpoint refuses to serve.
package lichess

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/config"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/stats"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	collector  stats.Collector
}

// New builds a Client from the loaded configuration. Token holders get the
// shorter request timeout since the remote service prioritizes them.
func New(cfg config.Config, collector stats.Collector) *Client {
	if collector == nil {
		collector = stats.Noop{}
	}
	maxRetries := cfg.EvalMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeout()) * time.Second},
		baseURL:    strings.TrimRight(cfg.LichessBaseURL, "/"),
		token:      cfg.LichessToken,
		maxRetries: maxRetries,
		collector:  collector,
	}
}

type cloudEvalResponse struct {
	FEN    string    `json:"fen"`
	KNodes int       `json:"knodes"`
	Depth  int       `json:"depth"`
	PVs    []pvEntry `json:"pvs"`
}

type pvEntry struct {
	CP   *int `json:"cp"`
	Mate *int `json:"mate"`
	// Both fields arrive as either a space-delimited string or an array
	// depending on the endpoint.
	Moves json.RawMessage `json:"moves"`
	PV    json.RawMessage `json:"pv"`
}

// FetchCloudEval asks the cloud evaluation service for a position assessment.
// 404 means the position has not been evaluated yet and surfaces immediately
// as an Unavailable error; 429 and transport failures are retried with
// backoff up to the configured budget.
func (c *Client) FetchCloudEval(ctx context.Context, fen string, depth int) (models.CloudEval, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess")
	c.collector.IncCounter(stats.MetricEvalRequests, 1)
	started := time.Now()

	params := url.Values{}
	params.Set("fen", fen)
	if depth > 0 {
		params.Set("depth", strconv.Itoa(depth))
	}
	reqURL := fmt.Sprintf("%s/api/cloud-eval?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := c.newRequest(ctx, reqURL)
		if err != nil {
			return models.CloudEval{}, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.collector.IncCounter(stats.MetricEvalErrors, 1)
			if c.retryAfter(ctx, attempt, time.Duration(1<<attempt)*time.Second) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.CloudEval{}, ctxErr
			}
			return models.CloudEval{}, apperr.NewTransportError(lastErr)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var payload cloudEvalResponse
			err := json.NewDecoder(resp.Body).Decode(&payload)
			resp.Body.Close()
			if err != nil {
				return models.CloudEval{}, apperr.NewParseFailureError("cloud eval response", err)
			}
			c.collector.ObserveHistogram(stats.MetricEvalDuration, time.Since(started).Seconds())
			return payload.toEval(fen, depth), nil

		case http.StatusNotFound:
			resp.Body.Close()
			c.collector.IncCounter(stats.MetricEvalUnavailable, 1)
			log.Debug("no cloud eval for position yet (404)")
			return models.CloudEval{}, apperr.NewUnavailableError("cloud evaluation for position")

		case http.StatusTooManyRequests:
			resp.Body.Close()
			c.collector.IncCounter(stats.MetricEvalRateLimited, 1)
			backoff := c.rateLimitBackoff(attempt)
			if attempt < 2 {
				log.Warn("rate limited (429), waiting %s before retry %d/%d", backoff, attempt+1, c.maxRetries)
			}
			if c.retryAfter(ctx, attempt, backoff) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.CloudEval{}, ctxErr
			}
			return models.CloudEval{}, apperr.NewRateLimitedError(c.maxRetries)

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = fmt.Errorf("cloud eval status %d: %s", resp.StatusCode, string(body))
			c.collector.IncCounter(stats.MetricEvalErrors, 1)
			if c.retryAfter(ctx, attempt, time.Duration(1<<attempt)*time.Second) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.CloudEval{}, ctxErr
			}
			return models.CloudEval{}, apperr.NewTransportError(lastErr)
		}
	}

	return models.CloudEval{}, apperr.NewTransportError(lastErr)
}

// retryAfter sleeps before the next attempt. It reports false when the retry
// budget is spent or the context was cancelled during the wait.
func (c *Client) retryAfter(ctx context.Context, attempt int, backoff time.Duration) bool {
	if attempt >= c.maxRetries-1 {
		return false
	}
	c.collector.IncCounter(stats.MetricEvalRetries, 1)
	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// rateLimitBackoff scales the 429 wait: short fixed increments with a token,
// exponential without one.
func (c *Client) rateLimitBackoff(attempt int) time.Duration {
	if c.token != "" {
		return time.Duration(attempt+1) * 500 * time.Millisecond
	}
	return time.Duration((1<<attempt)+1) * time.Second
}

func (c *Client) newRequest(ctx context.Context, reqURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (r cloudEvalResponse) toEval(fen string, depth int) models.CloudEval {
	eval := models.CloudEval{FEN: r.FEN, Depth: r.Depth, PV: []string{}}
	if eval.FEN == "" {
		eval.FEN = fen
	}
	if eval.Depth == 0 {
		eval.Depth = depth
	}
	if r.KNodes > 0 {
		// The service reports kilo-nodes.
		eval.Nodes = r.KNodes * 1000
	}
	if len(r.PVs) > 0 {
		head := r.PVs[0]
		eval.CP = head.CP
		eval.Mate = head.Mate
		if pv := normalizePV(head.Moves); len(pv) > 0 {
			eval.PV = pv
		} else if pv := normalizePV(head.PV); len(pv) > 0 {
			eval.PV = pv
		}
	}
	return eval
}

func normalizePV(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return strings.Fields(joined)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}
