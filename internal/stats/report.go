// Package stats contains statistics calculations and reporting.
package stats

import (
	"github.com/verte-zerg/tuidoro/internal/achievement"
	"github.com/verte-zerg/tuidoro/internal/ledger"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/session"
)

// DefaultTrendDays is the default length of the trend chart.
const DefaultTrendDays = 30

// Report contains precomputed data for stats rendering.
type Report struct {
	Experience       int
	Level            int
	LevelProgress    float64
	NextLevelAt      int
	Streak           int
	GoalSessions     int
	GoalTarget       int
	GoalReached      bool
	Totals           model.Totals
	Week             model.DailySeries
	Month            model.DailySeries
	Tasks            []TaskTotal
	TasksCompleted   int
	Achievements     []achievement.Status
	Unlocked         int
	AchievementTotal int
}

// BuildReport prepares data for stats rendering. History older than the
// ledger retention is already gone, so trendDays past it only adds zeros.
func BuildReport(ov session.Overview, l *ledger.Ledger, trendDays, topTasks int) Report {
	if trendDays <= 0 {
		trendDays = DefaultTrendDays
	}
	return Report{
		Experience:       ov.Experience,
		Level:            ov.Level,
		LevelProgress:    ov.LevelProgress,
		NextLevelAt:      ov.NextLevelAt,
		Streak:           ov.Streak,
		GoalSessions:     ov.Goal.SessionsToday,
		GoalTarget:       ov.Goal.Target,
		GoalReached:      ov.Goal.Reached,
		Totals:           ov.Totals,
		Week:             ov.Week,
		Month:            l.AggregateLastNDays(trendDays),
		Tasks:            TopTasks(l.Entries(), topTasks),
		TasksCompleted:   ov.TasksCompleted,
		Achievements:     ov.Achievements,
		Unlocked:         ov.UnlockedCount(),
		AchievementTotal: len(ov.Achievements),
	}
}
