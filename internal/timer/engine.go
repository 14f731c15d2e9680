// Package timer implements the wall-clock anchored countdown engine.
package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

// TickInterval is how often a running engine recomputes its state.
const TickInterval = time.Second

// Engine is a countdown whose remaining time is always derived from the
// anchor instant, never from the number of ticks observed.
type Engine struct {
	mu      sync.Mutex
	clock   clock.Clock
	records *store.Records
	sched   Scheduler

	mode    model.Mode
	total   int
	basis   int // remaining seconds at anchor while running, remaining seconds otherwise
	running bool
	anchor  time.Time
	cancel  func()
	gen     uint64
	// pending is the token of a completion not yet taken, or zero.
	pending uint64

	onTick     func(model.Snapshot)
	onComplete func(model.Snapshot, uint64)
}

// New constructs an idle engine in focus mode.
func New(clk clock.Clock, records *store.Records, sched Scheduler) *Engine {
	return &Engine{
		clock:   clk,
		records: records,
		sched:   sched,
		mode:    model.ModeFocus,
	}
}

// OnTick registers the observer called after every tick.
func (e *Engine) OnTick(fn func(model.Snapshot)) {
	e.mu.Lock()
	e.onTick = fn
	e.mu.Unlock()
}

// OnComplete registers the observer called with the final snapshot and a
// completion token when the countdown reaches zero. The observer must claim
// the token with TakeCompletion before acting on it.
func (e *Engine) OnComplete(fn func(model.Snapshot, uint64)) {
	e.mu.Lock()
	e.onComplete = fn
	e.mu.Unlock()
}

// Configure selects a mode and duration, stopping any running countdown.
// Non-positive durations are clamped to one second.
func (e *Engine) Configure(mode model.Mode, totalSeconds int) {
	if totalSeconds < 1 {
		totalSeconds = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.pending = 0
	e.mode = mode
	e.total = totalSeconds
	e.basis = totalSeconds
	e.persistLocked(e.clock.Now())
}

// Start begins or resumes the countdown. It is a no-op while running or
// when nothing is left to count down.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.basis <= 0 {
		return
	}
	e.startLocked(e.clock.Now())
}

// Pause freezes the countdown at its current derived value.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	now := e.clock.Now()
	e.basis = e.remainingAtLocked(now)
	e.stopLocked()
	e.persistLocked(now)
}

// Reset stops the countdown, refills it and drops the persisted record.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.pending = 0
	e.basis = e.total
	e.records.Clear(store.KeyTimer)
}

// PendingCompletion returns the token of a completion that fired but has
// not been taken yet, or zero.
func (e *Engine) PendingCompletion() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// TakeCompletion claims the completion identified by token. It reports false
// when the token was already taken or the engine was reconfigured since.
func (e *Engine) TakeCompletion(token uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token == 0 || e.pending != token {
		return false
	}
	e.pending = 0
	return true
}

// Snapshot returns the current state with remaining time derived from now.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.clock.Now())
}

// Restore reads the persisted record and classifies it. It does not change
// the engine; pass the result to Apply.
func (e *Engine) Restore() Restoration {
	var rec model.PersistedTimer
	if !e.records.Load(store.KeyTimer, &rec) {
		return Restoration{}
	}
	r, clearRecord := classify(rec, e.clock.Now())
	if clearRecord {
		e.records.Clear(store.KeyTimer)
	}
	return r
}

// Apply loads a restoration into the engine, re-arming it when the
// restored countdown was running. A running restore keeps its deadline, so
// restoring again changes nothing.
func (e *Engine) Apply(r Restoration) {
	if r.Kind == RestoreNone {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.pending = 0
	e.mode = r.Mode
	e.total = r.TotalSeconds
	e.basis = r.RemainingSeconds
	if r.Kind == RestoreRunning && e.basis > 0 {
		anchor := e.clock.Now()
		if !r.Deadline.IsZero() {
			anchor = r.Deadline.Add(-time.Duration(e.basis) * time.Second)
		}
		e.startLocked(anchor)
	}
}

func (e *Engine) startLocked(anchor time.Time) {
	e.anchor = anchor
	e.running = true
	e.gen++
	e.persistLocked(e.clock.Now())
	gen := e.gen
	e.cancel = e.sched.Every(TickInterval, func() { e.tick(gen) })
}

func (e *Engine) stopLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
	e.anchor = time.Time{}
	e.gen++
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if !e.running || gen != e.gen {
		e.mu.Unlock()
		return
	}
	now := e.clock.Now()
	remaining := e.remainingAtLocked(now)
	completed := remaining == 0
	var snap model.Snapshot
	var token uint64
	if completed {
		e.stopLocked()
		e.basis = 0
		e.pending = e.gen
		token = e.pending
		e.records.Clear(store.KeyTimer)
		snap = e.snapshotLocked(now)
	} else {
		e.persistLocked(now)
		snap = e.snapshotLocked(now)
	}
	onTick, onComplete := e.onTick, e.onComplete
	e.mu.Unlock()

	if onTick != nil {
		onTick(snap)
	}
	if completed {
		slog.Debug("timer completed", "mode", snap.Mode, "total", snap.TotalSeconds)
		if onComplete != nil {
			onComplete(snap, token)
		}
	}
}

func (e *Engine) remainingAtLocked(now time.Time) int {
	if !e.running {
		return e.basis
	}
	elapsed := now.Sub(e.anchor)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := e.basis - int(elapsed/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (e *Engine) deadlineLocked() time.Time {
	return e.anchor.Add(time.Duration(e.basis) * time.Second)
}

func (e *Engine) snapshotLocked(now time.Time) model.Snapshot {
	snap := model.Snapshot{
		Mode:             e.mode,
		Running:          e.running,
		TotalSeconds:     e.total,
		RemainingSeconds: e.remainingAtLocked(now),
	}
	if e.running {
		snap.Deadline = e.deadlineLocked()
	}
	return snap
}

func (e *Engine) persistLocked(now time.Time) {
	rec := model.PersistedTimer{
		Mode:             e.mode,
		IsRunning:        e.running,
		RemainingSeconds: e.remainingAtLocked(now),
		TotalSeconds:     e.total,
		SavedAt:          now,
	}
	if e.running {
		deadline := e.deadlineLocked()
		rec.TargetEndTime = &deadline
	}
	e.records.Save(store.KeyTimer, rec)
}
