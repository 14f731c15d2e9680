package session

import (
	"github.com/verte-zerg/tuidoro/internal/achievement"
	"github.com/verte-zerg/tuidoro/internal/goal"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/progress"
)

// Overview is a read-only view of every derived value the UIs display.
type Overview struct {
	Snapshot       model.Snapshot
	Experience     int
	Level          int
	LevelProgress  float64
	NextLevelAt    int // zero at max level
	Streak         int
	HistoryStreak  int
	Goal           goal.Progress
	Totals         model.Totals
	Week           model.DailySeries
	TasksCompleted int
	Achievements   []achievement.Status
	Selected       *model.TaskRef
}

// Overview collects the current derived state. Reading validates the streak
// and rolls the daily goal over like any other access.
func (o *Orchestrator) Overview() Overview {
	o.mu.Lock()
	defer o.mu.Unlock()
	state := o.deps.Progress.State()
	level := progress.LevelFor(state.TotalExperience)
	ov := Overview{
		Snapshot:       o.deps.Engine.Snapshot(),
		Experience:     state.TotalExperience,
		Level:          level,
		LevelProgress:  progress.ProgressWithinLevel(state.TotalExperience),
		Streak:         o.deps.Streak.Current(),
		HistoryStreak:  o.deps.Ledger.StreakFromHistory(),
		Goal:           o.deps.Goal.Status(),
		Totals:         o.deps.Ledger.Totals(),
		Week:           o.deps.Ledger.AggregateLastNDays(7),
		TasksCompleted: state.TasksCompletedTotal,
		Achievements:   o.deps.Achievements.List(),
	}
	if level < progress.MaxLevel() {
		ov.NextLevelAt = progress.ThresholdFor(level + 1)
	}
	if o.selected != nil {
		ref := *o.selected
		ov.Selected = &ref
	}
	return ov
}

// UnlockedCount returns how many achievements in ov are unlocked.
func (ov Overview) UnlockedCount() int {
	n := 0
	for _, s := range ov.Achievements {
		if s.UnlockedAt != nil {
			n++
		}
	}
	return n
}
