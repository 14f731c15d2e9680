// Package goal tracks the daily focus-session target.
package goal

import (
	"sync"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

const (
	// Target is the number of focus sessions per day.
	Target = 4
	// BonusXP is granted once per day when Target is first reached.
	BonusXP = 100
)

// Progress reports the daily goal after an update.
type Progress struct {
	SessionsToday int
	Target        int
	JustReached   bool
	Bonus         int
	Reached       bool
}

// Tracker owns the daily goal record.
type Tracker struct {
	mu      sync.Mutex
	clock   clock.Clock
	records *store.Records
	state   model.DailyGoalState
}

// New loads the daily goal record.
func New(clk clock.Clock, records *store.Records) *Tracker {
	t := &Tracker{clock: clk, records: records}
	var state model.DailyGoalState
	if records.Load(store.KeyDailyGoal, &state) && state.SessionsToday >= 0 {
		t.state = state
	}
	return t
}

// Status returns today's progress, rolling the counter over on a new day.
func (t *Tracker) Status() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.progressLocked(false)
}

// RecordSession counts a focus session. Bonus is non-zero only on the
// session that first reaches Target today.
func (t *Tracker) RecordSession() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	t.state.SessionsToday++
	justReached := false
	if !t.state.GoalReachedToday && t.state.SessionsToday >= Target {
		t.state.GoalReachedToday = true
		justReached = true
	}
	t.save()
	return t.progressLocked(justReached)
}

// Wipe clears the daily counter.
func (t *Tracker) Wipe() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = model.DailyGoalState{}
	t.save()
}

func (t *Tracker) rolloverLocked() {
	today := clock.DayKey(t.clock.Now())
	if t.state.LastResetDate != nil && *t.state.LastResetDate == today {
		return
	}
	t.state = model.DailyGoalState{LastResetDate: &today}
	t.save()
}

func (t *Tracker) progressLocked(justReached bool) Progress {
	p := Progress{
		SessionsToday: t.state.SessionsToday,
		Target:        Target,
		JustReached:   justReached,
		Reached:       t.state.GoalReachedToday,
	}
	if justReached {
		p.Bonus = BonusXP
	}
	return p
}

func (t *Tracker) save() {
	t.records.Save(store.KeyDailyGoal, t.state)
}
