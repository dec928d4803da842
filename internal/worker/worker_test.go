package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/progress"
	"github.com/replaylens/replaylens/internal/worker"
)

type funcJob struct {
	name string
	run  func(context.Context) error
}

func (j funcJob) Name() string { return j.name }

func (j funcJob) Run(ctx context.Context) error { return j.run(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, pool.TrySubmit(funcJob{name: "count", run: func(context.Context) error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}}))
	}
	wg.Wait()
	pool.Stop()

	assert.Equal(t, int32(5), ran.Load())
}

func TestPool_TrySubmitQueueFull(t *testing.T) {
	// Never started, so nothing drains the queue.
	pool := worker.NewPool(1, 1)

	require.NoError(t, pool.TrySubmit(funcJob{name: "first", run: func(context.Context) error { return nil }}))
	err := pool.TrySubmit(funcJob{name: "second", run: func(context.Context) error { return nil }})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeQueueFull, appErr.Code)
	assert.Equal(t, 1, pool.QueueSize())
}

func TestPool_JobFailureDoesNotStopWorkers(t *testing.T) {
	pool := worker.NewPool(1, 8)
	pool.Start(context.Background())

	done := make(chan struct{})
	require.NoError(t, pool.TrySubmit(funcJob{name: "boom", run: func(context.Context) error {
		return errors.New("boom")
	}}))
	require.NoError(t, pool.TrySubmit(funcJob{name: "after", run: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job after a failure never ran")
	}
	pool.Stop()
}

func TestPool_StopWaitsForInFlightJob(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, pool.TrySubmit(funcJob{name: "slow", run: func(context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}}))

	<-started
	pool.Stop()
	assert.True(t, finished.Load(), "Stop returns only after the running job finishes")
}

type stubFetcher struct {
	game models.GameRecord
	err  error
}

func (f *stubFetcher) FetchGame(_ context.Context, _ string) (models.GameRecord, error) {
	return f.game, f.err
}

type stubAnalyzer struct {
	fn func(ctx context.Context, game models.GameRecord, progressFn analysis.ProgressFunc) (*models.AnalysisReport, error)
}

func (a stubAnalyzer) AnalyzeGame(ctx context.Context, game models.GameRecord, progressFn analysis.ProgressFunc) (*models.AnalysisReport, error) {
	return a.fn(ctx, game, progressFn)
}

type stubSaver struct {
	saved []models.AnalysisReport
	err   error
}

func (s *stubSaver) SaveReport(_ context.Context, report models.AnalysisReport) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, report)
	return nil
}

func TestAnalyzeGameJob_Success(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Start("abc12345")
	saver := &stubSaver{}
	game := models.GameRecord{GameID: "abc12345", Moves: []string{"e4", "e5"}}

	var midRun progress.Snapshot
	job := &worker.AnalyzeGameJob{
		GameID:  "abc12345",
		Fetcher: &stubFetcher{game: game},
		Analyzer: stubAnalyzer{fn: func(_ context.Context, g models.GameRecord, progressFn analysis.ProgressFunc) (*models.AnalysisReport, error) {
			progressFn(50, 1, 2)
			midRun, _ = tracker.Get("abc12345")
			return &models.AnalysisReport{GameID: g.GameID, Game: g, TotalMoves: 2}, nil
		}},
		Saver:   saver,
		Tracker: tracker,
	}

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, progress.StatusAnalyzing, midRun.Status, "progress callback lands in the tracker while analyzing")
	assert.Equal(t, 50, midRun.Percent)
	assert.Equal(t, 1, midRun.Completed)
	assert.Equal(t, 2, midRun.Total)

	snap, ok := tracker.Get("abc12345")
	require.True(t, ok)
	assert.Equal(t, progress.StatusComplete, snap.Status)
	assert.Equal(t, 100, snap.Percent)

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "abc12345", saver.saved[0].GameID)
}

func TestAnalyzeGameJob_FetchFailure(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Start("abc12345")
	saver := &stubSaver{}

	job := &worker.AnalyzeGameJob{
		GameID:  "abc12345",
		Fetcher: &stubFetcher{err: apperr.NewNotFoundError("game", "abc12345")},
		Analyzer: stubAnalyzer{fn: func(context.Context, models.GameRecord, analysis.ProgressFunc) (*models.AnalysisReport, error) {
			t.Error("analyzer must not run after a failed fetch")
			return nil, nil
		}},
		Saver:   saver,
		Tracker: tracker,
	}

	err := job.Run(context.Background())
	require.Error(t, err)

	snap, ok := tracker.Get("abc12345")
	require.True(t, ok)
	assert.Equal(t, progress.StatusFailed, snap.Status)
	assert.Contains(t, snap.Error, "not found")
	assert.Empty(t, saver.saved)
}

func TestAnalyzeGameJob_AnalysisFailure(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Start("abc12345")
	saver := &stubSaver{}

	job := &worker.AnalyzeGameJob{
		GameID:  "abc12345",
		Fetcher: &stubFetcher{game: models.GameRecord{GameID: "abc12345"}},
		Analyzer: stubAnalyzer{fn: func(context.Context, models.GameRecord, analysis.ProgressFunc) (*models.AnalysisReport, error) {
			return nil, context.Canceled
		}},
		Saver:   saver,
		Tracker: tracker,
	}

	err := job.Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	snap, _ := tracker.Get("abc12345")
	assert.Equal(t, progress.StatusFailed, snap.Status)
	assert.Empty(t, saver.saved)
}

func TestAnalyzeGameJob_SaveFailure(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Start("abc12345")
	saver := &stubSaver{err: errors.New("disk full")}

	job := &worker.AnalyzeGameJob{
		GameID:  "abc12345",
		Fetcher: &stubFetcher{game: models.GameRecord{GameID: "abc12345"}},
		Analyzer: stubAnalyzer{fn: func(_ context.Context, g models.GameRecord, _ analysis.ProgressFunc) (*models.AnalysisReport, error) {
			return &models.AnalysisReport{GameID: g.GameID, Game: g}, nil
		}},
		Saver:   saver,
		Tracker: tracker,
	}

	err := job.Run(context.Background())
	require.Error(t, err)

	snap, _ := tracker.Get("abc12345")
	assert.Equal(t, progress.StatusFailed, snap.Status)
	assert.Equal(t, "disk full", snap.Error)
}

func TestAnalyzeGameJob_ThroughPool(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Start("abc12345")
	saver := &stubSaver{}
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())

	job := &worker.AnalyzeGameJob{
		GameID:  "abc12345",
		Fetcher: &stubFetcher{game: models.GameRecord{GameID: "abc12345", Moves: []string{"e4"}}},
		Analyzer: stubAnalyzer{fn: func(_ context.Context, g models.GameRecord, _ analysis.ProgressFunc) (*models.AnalysisReport, error) {
			return &models.AnalysisReport{GameID: g.GameID, Game: g, TotalMoves: 1}, nil
		}},
		Saver:   saver,
		Tracker: tracker,
	}
	require.NoError(t, pool.TrySubmit(job))

	assert.Eventually(t, func() bool {
		snap, ok := tracker.Get("abc12345")
		return ok && snap.Status == progress.StatusComplete
	}, 2*time.Second, 10*time.Millisecond)
	pool.Stop()

	require.Len(t, saver.saved, 1)
	assert.Equal(t, 1, saver.saved[0].TotalMoves)
}
