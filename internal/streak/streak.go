// Package streak tracks consecutive calendar days with a focus session.
package streak

import (
	"sync"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

// Tracker owns the streak record. The stored count is only meaningful
// relative to today, so every read re-validates it.
type Tracker struct {
	mu      sync.Mutex
	clock   clock.Clock
	records *store.Records
	state   model.StreakState
}

// New loads the streak record.
func New(clk clock.Clock, records *store.Records) *Tracker {
	t := &Tracker{clock: clk, records: records}
	var state model.StreakState
	if records.Load(store.KeyStreak, &state) && state.CurrentStreak >= 0 {
		t.state = state
	}
	return t
}

// Current validates the streak against today and returns it. A streak whose
// last session is older than yesterday decays to zero.
func (t *Tracker) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	today := clock.DayKey(t.clock.Now())
	if t.state.CurrentStreak == 0 {
		return 0
	}
	if t.state.LastSessionDate != nil {
		if days, ok := clock.DaysBetween(*t.state.LastSessionDate, today); ok && (days == 0 || days == 1) {
			return t.state.CurrentStreak
		}
	}
	t.state.CurrentStreak = 0
	t.save()
	return 0
}

// RecordSession applies a session recorded today and returns the new streak
// and whether it changed.
func (t *Tracker) RecordSession() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	today := clock.DayKey(t.clock.Now())
	before := t.state.CurrentStreak
	next := 1
	if t.state.LastSessionDate != nil {
		if days, ok := clock.DaysBetween(*t.state.LastSessionDate, today); ok {
			switch days {
			case 0:
				if before > 0 {
					return before, false
				}
			case 1:
				next = before + 1
			}
		}
	}
	t.state.CurrentStreak = next
	t.state.LastSessionDate = &today
	t.save()
	return next, next != before
}

// State returns a copy of the stored state without validation.
func (t *Tracker) State() model.StreakState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Wipe clears the streak.
func (t *Tracker) Wipe() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = model.StreakState{}
	t.save()
}

func (t *Tracker) save() {
	t.records.Save(store.KeyStreak, t.state)
}
