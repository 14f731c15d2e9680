package session

import (
	"github.com/verte-zerg/tuidoro/internal/achievement"
	"github.com/verte-zerg/tuidoro/internal/goal"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/progress"
)

// Event is delivered to the presentation layer.
type Event interface {
	event()
}

// TickEvent carries the snapshot after every engine tick.
type TickEvent struct {
	Snapshot model.Snapshot
}

// CompleteEvent is emitted last for every completion. Restored is true when
// the countdown finished while the process was not running.
type CompleteEvent struct {
	Mode     model.Mode
	Next     model.Mode
	Restored bool
	Session  *model.SessionRecord
}

// XPSource names what an experience grant was for.
type XPSource string

const (
	XPFocus XPSource = "focus"
	XPGoal  XPSource = "goal"
	XPTask  XPSource = "task"
)

// XPEvent reports an experience grant.
type XPEvent struct {
	Source XPSource
	Award  progress.Award
}

// StreakEvent reports the streak value after a change or a day rollover.
type StreakEvent struct {
	Streak int
}

// GoalEvent reports daily goal progress.
type GoalEvent struct {
	Progress goal.Progress
}

// AchievementEvent reports a newly unlocked achievement.
type AchievementEvent struct {
	Achievement achievement.Definition
}

// TaskEvent reports a task completion. Reward.Granted is false when the
// reward window was saturated.
type TaskEvent struct {
	Task   model.Task
	Reward progress.TaskReward
}

func (TickEvent) event()        {}
func (CompleteEvent) event()    {}
func (XPEvent) event()          {}
func (StreakEvent) event()      {}
func (GoalEvent) event()        {}
func (AchievementEvent) event() {}
func (TaskEvent) event()        {}
