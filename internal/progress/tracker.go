// Package progress tracks the state of in-flight game analyses. The tracker
// is an explicit dependency handed to whoever needs it; analysis code only
// ever sees a plain callback.
package progress

import (
	"sync"
	"time"
)

// Status is the lifecycle stage of one analysis run.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusFetching  Status = "fetching"
	StatusAnalyzing Status = "analyzing"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
)

// Active reports whether the status belongs to a run that has not finished.
func (s Status) Active() bool {
	switch s {
	case StatusQueued, StatusFetching, StatusAnalyzing:
		return true
	}
	return false
}

// Snapshot is the externally visible state of one run. Values are copies;
// mutating a returned snapshot changes nothing.
type Snapshot struct {
	GameID    string    `json:"gameId"`
	Status    Status    `json:"status"`
	Percent   int       `json:"percent"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker holds per-game progress behind a mutex.
type Tracker struct {
	mu   sync.RWMutex
	runs map[string]Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{runs: make(map[string]Snapshot)}
}

// Start registers a fresh run in the queued state, replacing any previous
// run for the same game.
func (t *Tracker) Start(gameID string) {
	now := time.Now().UTC()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[gameID] = Snapshot{
		GameID:    gameID,
		Status:    StatusQueued,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SetStage moves a run to the given lifecycle stage.
func (t *Tracker) SetStage(gameID string, status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.runs[gameID]
	if !ok {
		return
	}
	snap.Status = status
	snap.UpdatedAt = time.Now().UTC()
	t.runs[gameID] = snap
}

// Update records fetch progress numbers for a run.
func (t *Tracker) Update(gameID string, percent, completed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.runs[gameID]
	if !ok {
		return
	}
	snap.Percent = percent
	snap.Completed = completed
	snap.Total = total
	snap.UpdatedAt = time.Now().UTC()
	t.runs[gameID] = snap
}

// Complete marks a run finished.
func (t *Tracker) Complete(gameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.runs[gameID]
	if !ok {
		return
	}
	snap.Status = StatusComplete
	snap.Percent = 100
	snap.UpdatedAt = time.Now().UTC()
	t.runs[gameID] = snap
}

// Fail marks a run failed with the error's message.
func (t *Tracker) Fail(gameID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.runs[gameID]
	if !ok {
		return
	}
	snap.Status = StatusFailed
	if err != nil {
		snap.Error = err.Error()
	}
	snap.UpdatedAt = time.Now().UTC()
	t.runs[gameID] = snap
}

// Get returns the snapshot for a game, if one exists.
func (t *Tracker) Get(gameID string) (Snapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap, ok := t.runs[gameID]
	return snap, ok
}

// Running reports whether an analysis for the game is queued or underway.
func (t *Tracker) Running(gameID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap, ok := t.runs[gameID]
	return ok && snap.Status.Active()
}
