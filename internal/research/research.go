// Package research mirrors a game position into an external analysis page.
// It is a best-effort side channel: the analysis pipeline never depends on
// it, and every failure degrades to handing the caller a URL instead.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/replaylens/replaylens/internal/logger"
)

// Tab describes one open browser tab.
type Tab struct {
	Index   int
	URL     string
	Current bool
}

// Session is a live browser-automation session. Implementations wrap
// whatever transport drives the browser; the researcher only sequences
// calls and treats every error as a cue to fall back.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, script string) (string, error)
	ListTabs(ctx context.Context) ([]Tab, error)
	SelectTab(ctx context.Context, index int) error
}

const (
	MethodBrowser = "browser"
	MethodURL     = "url"
)

// Result reports how a position was opened for research.
type Result struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// Researcher opens positions in a browser session when one is configured
// and falls back to returning a deep link otherwise.
type Researcher struct {
	session Session
}

// NewResearcher wires a researcher around an optional session. A nil
// session is the default deployment: URL fallback only.
func NewResearcher(session Session) *Researcher {
	return &Researcher{session: session}
}

const analysisBoardURL = "https://lichess.org/analysis"

// Open mirrors the position into the analysis board. When a session is
// available it reuses an existing analysis tab or opens one, pastes the
// transcript, and reports the tab's final URL. It never returns an error:
// any session trouble downgrades to the plain URL result.
func (r *Researcher) Open(ctx context.Context, fen, pgn string) Result {
	fallback := Result{URL: AnalysisURL(fen), Method: MethodURL}
	if r.session == nil {
		return fallback
	}

	log := logger.FromContext(ctx).WithPrefix("research")

	r.reuseAnalysisTab(ctx)

	if err := r.session.Navigate(ctx, analysisBoardURL); err != nil {
		log.Warn("browser navigation failed, returning URL only: %v", err)
		return fallback
	}

	if pgn != "" {
		if _, err := r.session.Evaluate(ctx, pasteScript(pgn)); err != nil {
			log.Warn("pasting transcript failed: %v", err)
		}
	}

	return Result{URL: r.currentTabURL(ctx, fallback.URL), Method: MethodBrowser}
}

// reuseAnalysisTab selects an already-open analysis tab so repeated
// research calls do not pile up windows. Failures are ignored; navigation
// opens a fresh tab in that case.
func (r *Researcher) reuseAnalysisTab(ctx context.Context) {
	tabs, err := r.session.ListTabs(ctx)
	if err != nil {
		return
	}
	for _, tab := range tabs {
		if strings.Contains(tab.URL, "lichess.org/analysis") {
			_ = r.session.SelectTab(ctx, tab.Index)
			return
		}
	}
}

// currentTabURL asks the session where it ended up. The analysis board
// rewrites its URL as moves are applied, so the live tab URL is more
// precise than the FEN link we started from.
func (r *Researcher) currentTabURL(ctx context.Context, fallback string) string {
	tabs, err := r.session.ListTabs(ctx)
	if err != nil {
		return fallback
	}
	for _, tab := range tabs {
		if !tab.Current {
			continue
		}
		if strings.Contains(tab.URL, "#") || strings.Contains(tab.URL, "analysis") {
			return tab.URL
		}
	}
	return fallback
}

// pasteScript builds the page script that drops a transcript into the
// analysis board's import box and submits it.
func pasteScript(pgn string) string {
	quoted, err := json.Marshal(pgn)
	if err != nil {
		quoted = []byte(`""`)
	}
	return fmt.Sprintf(`() => {
	const pgnText = %s;
	const textarea = document.querySelector('textarea');
	if (!textarea) return 'textarea not found';
	textarea.focus();
	textarea.value = pgnText;
	textarea.dispatchEvent(new Event('input', { bubbles: true }));
	textarea.dispatchEvent(new Event('change', { bubbles: true }));
	for (const type of ['keydown', 'keypress', 'keyup']) {
		textarea.dispatchEvent(new KeyboardEvent(type, { key: 'Enter', code: 'Enter', keyCode: 13, bubbles: true, cancelable: true }));
	}
	return 'pgn set (' + textarea.value.length + ' chars)';
}`, quoted)
}
