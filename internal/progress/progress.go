// Package progress accounts experience, levels and task reward pacing.
package progress

import (
	"sync"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

const (
	// XPPerMinute is the focus reward rate.
	XPPerMinute = 4
	// TaskXP is awarded per completed task while under the limit.
	TaskXP = 25
	// TaskRewardLimit caps task rewards within RewardWindow.
	TaskRewardLimit = 5
	// RewardWindow is the sliding window for task rewards.
	RewardWindow = time.Hour
)

// Award describes one experience grant.
type Award struct {
	Amount    int
	Total     int
	LeveledUp bool
	Level     int
}

// TaskReward is the outcome of a task completion. Granted is false when the
// reward window was saturated; the task still counts as completed.
type TaskReward struct {
	Granted bool
	Award   Award
}

// Accountant owns the progression record.
type Accountant struct {
	mu      sync.Mutex
	clock   clock.Clock
	records *store.Records
	state   model.ProgressionState
}

// New loads the progression record.
func New(clk clock.Clock, records *store.Records) *Accountant {
	a := &Accountant{clock: clk, records: records}
	var state model.ProgressionState
	if records.Load(store.KeyProgression, &state) && state.TotalExperience >= 0 && state.TasksCompletedTotal >= 0 {
		a.state = state
	}
	return a
}

// State returns a copy of the progression state.
func (a *Accountant) State() model.ProgressionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	s.RewardWindow = append([]int64(nil), a.state.RewardWindow...)
	return s
}

// Level returns the level derived from total experience.
func (a *Accountant) Level() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return LevelFor(a.state.TotalExperience)
}

// AwardExperience adds amount and reports whether a level boundary was crossed.
func (a *Accountant) AwardExperience(amount int) Award {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.awardLocked(amount)
}

func (a *Accountant) awardLocked(amount int) Award {
	if amount < 0 {
		amount = 0
	}
	before := LevelFor(a.state.TotalExperience)
	a.state.TotalExperience += amount
	after := LevelFor(a.state.TotalExperience)
	a.save()
	return Award{
		Amount:    amount,
		Total:     a.state.TotalExperience,
		LeveledUp: after > before,
		Level:     after,
	}
}

// AwardFocusExperience grants minutes*XPPerMinute. It returns false for
// non-positive minutes.
func (a *Accountant) AwardFocusExperience(minutes int) (Award, bool) {
	if minutes <= 0 {
		return Award{}, false
	}
	return a.AwardExperience(minutes * XPPerMinute), true
}

// AwardTaskExperience records a task completion and grants TaskXP unless
// TaskRewardLimit rewards were already granted within RewardWindow.
func (a *Accountant) AwardTaskExperience() TaskReward {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.clock.Now()
	a.state.TasksCompletedTotal++
	a.evictLocked(now)
	if len(a.state.RewardWindow) >= TaskRewardLimit {
		a.save()
		return TaskReward{Granted: false, Award: Award{Total: a.state.TotalExperience, Level: LevelFor(a.state.TotalExperience)}}
	}
	a.state.RewardWindow = append(a.state.RewardWindow, now.UnixMilli())
	return TaskReward{Granted: true, Award: a.awardLocked(TaskXP)}
}

func (a *Accountant) evictLocked(now time.Time) {
	cutoff := now.Add(-RewardWindow).UnixMilli()
	kept := a.state.RewardWindow[:0]
	for _, ts := range a.state.RewardWindow {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	a.state.RewardWindow = kept
}

// Wipe resets experience and counters. It is the only path that lowers
// total experience.
func (a *Accountant) Wipe() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = model.ProgressionState{}
	a.save()
}

func (a *Accountant) save() {
	state := a.state
	if state.RewardWindow == nil {
		state.RewardWindow = []int64{}
	}
	a.records.Save(store.KeyProgression, state)
}
