// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode selects which duration profile the timer runs.
type Mode string

// Timer modes.
const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Label returns a human readable name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return string(m)
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// Durations holds the configured length of each mode.
type Durations struct {
	Focus          time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
}

// For returns the configured duration for a mode.
func (d Durations) For(m Mode) time.Duration {
	switch m {
	case ModeShortBreak:
		return d.ShortBreak
	case ModeLongBreak:
		return d.LongBreak
	default:
		return d.Focus
	}
}

// DefaultDurations returns the classic 25/5/15 profile.
func DefaultDurations() Durations {
	return Durations{
		Focus:          25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

// Snapshot is the observable timer state.
type Snapshot struct {
	Mode             Mode
	Running          bool
	TotalSeconds     int
	RemainingSeconds int
	// Deadline is zero unless Running.
	Deadline time.Time
}

// ElapsedSeconds returns how much of the configured duration has passed.
func (s Snapshot) ElapsedSeconds() int {
	if s.TotalSeconds <= s.RemainingSeconds {
		return 0
	}
	return s.TotalSeconds - s.RemainingSeconds
}

// PersistedTimer is the durable form of the timer state.
type PersistedTimer struct {
	Mode             Mode       `json:"mode" yaml:"mode"`
	IsRunning        bool       `json:"isRunning" yaml:"isRunning"`
	RemainingSeconds int        `json:"remainingSeconds" yaml:"remainingSeconds"`
	TotalSeconds     int        `json:"totalSeconds" yaml:"totalSeconds"`
	TargetEndTime    *time.Time `json:"targetEndTime" yaml:"targetEndTime"`
	SavedAt          time.Time  `json:"savedAt" yaml:"savedAt"`
}

// SessionRecord is one completed focus session in the history ledger.
type SessionRecord struct {
	DateKey         string    `json:"dateKey" yaml:"dateKey"`
	DurationMinutes int       `json:"durationMinutes" yaml:"durationMinutes"`
	TaskID          string    `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	TaskName        string    `json:"taskName,omitempty" yaml:"taskName,omitempty"`
	CompletedAt     time.Time `json:"completedAt" yaml:"completedAt"`
}

// TaskRef is an optional non-owning reference to a task.
type TaskRef struct {
	ID   string
	Name string
}

// ProgressionState is the durable experience ledger.
type ProgressionState struct {
	TotalExperience     int     `json:"totalExperience" yaml:"totalExperience"`
	TasksCompletedTotal int     `json:"tasksCompletedTotal" yaml:"tasksCompletedTotal"`
	RewardWindow        []int64 `json:"rewardWindow" yaml:"rewardWindow"`
}

// StreakState is the durable streak counter.
type StreakState struct {
	CurrentStreak   int     `json:"currentStreak" yaml:"currentStreak"`
	LastSessionDate *string `json:"lastSessionDate" yaml:"lastSessionDate"`
}

// DailyGoalState is the durable per-day session counter.
type DailyGoalState struct {
	SessionsToday    int     `json:"sessionsToday" yaml:"sessionsToday"`
	LastResetDate    *string `json:"lastResetDate" yaml:"lastResetDate"`
	GoalReachedToday bool    `json:"goalReachedToday" yaml:"goalReachedToday"`
}

// Task is an entry in the task queue.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Done        bool       `json:"done" yaml:"done"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// Totals summarizes the whole history ledger.
type Totals struct {
	TotalMinutes   int
	Sessions       int
	AverageMinutes int
}

// DailySeries holds per-day focus minutes, oldest first.
type DailySeries struct {
	Minutes []int
	Labels  []string
	Dates   []string
}
