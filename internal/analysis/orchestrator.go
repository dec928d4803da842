package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/corentings/chess/v2"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/stats"
)

// ProgressFunc receives fetch progress as position evaluations resolve.
// percent is completed/total scaled to 0..100. Callbacks arrive in
// completion order, not move order, and are never invoked concurrently.
type ProgressFunc func(percent, completed, total int)

// EvalFetcher is the slice of the evaluation client the analyzer needs.
type EvalFetcher interface {
	FetchCloudEval(ctx context.Context, fen string, depth int) (models.CloudEval, error)
}

// Analyzer turns a fetched game into a full analysis report.
type Analyzer interface {
	AnalyzeGame(ctx context.Context, game models.GameRecord, progress ProgressFunc) (*models.AnalysisReport, error)
}

type analyzer struct {
	evals         EvalFetcher
	depth         int
	maxConcurrent int
	collector     stats.Collector
}

// NewAnalyzer creates an Analyzer that fetches evaluations at the given
// depth with at most maxConcurrent requests in flight.
func NewAnalyzer(evals EvalFetcher, depth, maxConcurrent int, collector stats.Collector) Analyzer {
	if depth <= 0 {
		depth = 15
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if collector == nil {
		collector = stats.Noop{}
	}
	return &analyzer{
		evals:         evals,
		depth:         depth,
		maxConcurrent: maxConcurrent,
		collector:     collector,
	}
}

func (a *analyzer) AnalyzeGame(ctx context.Context, game models.GameRecord, progress ProgressFunc) (*models.AnalysisReport, error) {
	log := logger.FromContext(ctx).WithField("game_id", game.GameID)
	log.Info("starting analysis of %d moves (max %d concurrent evals)", len(game.Moves), a.maxConcurrent)
	started := time.Now()

	// A failed initial eval never aborts the run; a neutral placeholder
	// keeps the first move's delta well-defined.
	initial, err := a.evals.FetchCloudEval(ctx, startFEN, a.depth)
	if err != nil {
		log.Warn("initial position eval unavailable: %v", err)
		initial = models.ZeroEval(startFEN)
	}

	fens := ReplayFENs(game.Moves)
	afterEvals := a.fetchAll(ctx, log, fens, progress)

	if err := ctx.Err(); err != nil {
		a.collector.IncCounter(stats.MetricAnalysisFailures, 1)
		return nil, err
	}

	board := chess.NewGame()
	previous := initial
	records := make([]models.MoveRecord, 0, len(game.Moves))

	for i, san := range game.Moves {
		after := afterEvals[i]
		moverIsWhite := board.CurrentPosition().Turn() == chess.White

		if err := board.PushMove(san, nil); err != nil {
			log.Warn("move %d (%s) does not replay, skipped: %v", i+1, san, err)
			continue
		}

		deltaCP, deltaMate := Delta(previous, after, moverIsWhite)
		category := Categorize(deltaCP, deltaMate)

		// Best-effort suggestion from the post-move PV head; any parse
		// failure just leaves it empty.
		best := ""
		if uci := after.BestUCI(); uci != "" {
			if rendered, err := UCIToSAN(board.CurrentPosition().String(), uci); err == nil {
				best = rendered
			}
		}

		player := models.ColorWhite
		if !moverIsWhite {
			player = models.ColorBlack
		}

		records = append(records, models.MoveRecord{
			Ply:       i + 1,
			Move:      san,
			Player:    player,
			Before:    previous,
			After:     after,
			DeltaCP:   deltaCP,
			DeltaMate: deltaMate,
			Category:  category,
			BestMove:  best,
			Summary:   summarize(san, category, previous, after),
		})

		previous = after
	}

	report := &models.AnalysisReport{
		GameID:     game.GameID,
		Game:       game,
		Moves:      records,
		TotalMoves: len(records),
		CreatedAt:  time.Now().UTC(),
	}
	for _, rec := range records {
		blunder := rec.Category == models.CategoryBlunder
		bad := blunder || rec.Category == models.CategoryMistake
		if rec.Player == models.ColorWhite {
			if bad {
				report.WhiteMistakes++
			}
			if blunder {
				report.WhiteBlunders++
			}
		} else {
			if bad {
				report.BlackMistakes++
			}
			if blunder {
				report.BlackBlunders++
			}
		}
	}

	a.collector.IncCounter(stats.MetricAnalyses, 1)
	a.collector.ObserveHistogram(stats.MetricAnalysisDuration, time.Since(started).Seconds())
	log.Info("analysis complete: %d moves, white %d mistakes/%d blunders, black %d mistakes/%d blunders",
		report.TotalMoves, report.WhiteMistakes, report.WhiteBlunders, report.BlackMistakes, report.BlackBlunders)

	return report, nil
}

// fetchAll resolves evaluations for every position concurrently and returns
// them indexed by move order regardless of completion order. Downstream
// pairing is positional, so the index discipline here is the one
// concurrency-correctness concern of the whole pipeline. A nil FEN (move
// that never replayed) and a failed fetch both resolve to neutral
// placeholders.
func (a *analyzer) fetchAll(ctx context.Context, log *logger.Logger, fens []*string, progress ProgressFunc) []models.CloudEval {
	results := make([]models.CloudEval, len(fens))
	if len(fens) == 0 {
		return results
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	sem := make(chan struct{}, a.maxConcurrent)
	total := len(fens)

	for i, fen := range fens {
		wg.Add(1)
		go func(i int, fen *string) {
			defer wg.Done()

			if fen == nil {
				results[i] = models.ZeroEval("")
			} else {
				sem <- struct{}{}
				eval, err := a.evals.FetchCloudEval(ctx, *fen, a.depth)
				<-sem
				if err != nil {
					if i < 5 {
						log.Warn("cloud eval for move %d unavailable: %v", i+1, err)
					}
					eval = models.ZeroEval(*fen)
				}
				results[i] = eval
			}

			mu.Lock()
			completed++
			if progress != nil {
				progress(completed*100/total, completed, total)
			}
			mu.Unlock()
		}(i, fen)
	}
	wg.Wait()

	return results
}

func summarize(san, category string, before, after models.CloudEval) string {
	return fmt.Sprintf("%s: %s (%s → %s)", san, category, before.Format(), after.Format())
}
