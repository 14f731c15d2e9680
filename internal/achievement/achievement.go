// Package achievement evaluates and records one-time milestones.
package achievement

import (
	"sort"
	"sync"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/store"
)

// Facts is the state achievement predicates are evaluated against.
type Facts struct {
	TotalSessions    int
	TotalMinutes     int
	Streak           int
	Level            int
	GoalReachedToday bool
	TasksCompleted   int
	// Hour is the local hour of the completion being evaluated, or -1.
	Hour int
}

// Definition is one entry of the catalogue.
type Definition struct {
	ID          string
	Title       string
	Description string
	unlocked    func(Facts) bool
}

// Status pairs a definition with its unlock time.
type Status struct {
	Definition
	UnlockedAt *time.Time
}

var catalogue = []Definition{
	{ID: "first_session", Title: "First Tomato", Description: "Complete your first focus session.", unlocked: func(f Facts) bool { return f.TotalSessions >= 1 }},
	{ID: "ten_sessions", Title: "Getting Into It", Description: "Complete 10 focus sessions.", unlocked: func(f Facts) bool { return f.TotalSessions >= 10 }},
	{ID: "fifty_sessions", Title: "Half Century", Description: "Complete 50 focus sessions.", unlocked: func(f Facts) bool { return f.TotalSessions >= 50 }},
	{ID: "hundred_sessions", Title: "Centurion", Description: "Complete 100 focus sessions.", unlocked: func(f Facts) bool { return f.TotalSessions >= 100 }},
	{ID: "ten_hours", Title: "Deep Work", Description: "Log 10 hours of focus.", unlocked: func(f Facts) bool { return f.TotalMinutes >= 600 }},
	{ID: "streak_3", Title: "On a Roll", Description: "Keep a 3 day streak.", unlocked: func(f Facts) bool { return f.Streak >= 3 }},
	{ID: "streak_7", Title: "Week Warrior", Description: "Keep a 7 day streak.", unlocked: func(f Facts) bool { return f.Streak >= 7 }},
	{ID: "streak_30", Title: "Unstoppable", Description: "Keep a 30 day streak.", unlocked: func(f Facts) bool { return f.Streak >= 30 }},
	{ID: "level_5", Title: "Apprentice", Description: "Reach level 5.", unlocked: func(f Facts) bool { return f.Level >= 5 }},
	{ID: "level_10", Title: "Master", Description: "Reach level 10.", unlocked: func(f Facts) bool { return f.Level >= 10 }},
	{ID: "daily_goal", Title: "Goal Getter", Description: "Reach the daily goal.", unlocked: func(f Facts) bool { return f.GoalReachedToday }},
	{ID: "early_bird", Title: "Early Bird", Description: "Finish a focus session before 8am.", unlocked: func(f Facts) bool { return f.Hour >= 0 && f.Hour < 8 }},
	{ID: "night_owl", Title: "Night Owl", Description: "Finish a focus session after 10pm.", unlocked: func(f Facts) bool { return f.Hour >= 22 }},
	{ID: "ten_tasks", Title: "Checklist Hero", Description: "Complete 10 tasks.", unlocked: func(f Facts) bool { return f.TasksCompleted >= 10 }},
}

// Catalogue returns every known achievement.
func Catalogue() []Definition {
	return append([]Definition(nil), catalogue...)
}

// Record is the durable form of the unlocked set.
type Record struct {
	Unlocked map[string]time.Time `json:"unlocked" yaml:"unlocked"`
}

// Book owns the unlocked-achievements record.
type Book struct {
	mu       sync.Mutex
	clock    clock.Clock
	records  *store.Records
	unlocked map[string]time.Time
}

// New loads the achievements record.
func New(clk clock.Clock, records *store.Records) *Book {
	b := &Book{clock: clk, records: records, unlocked: map[string]time.Time{}}
	var rec Record
	if records.Load(store.KeyAchievements, &rec) && rec.Unlocked != nil {
		b.unlocked = rec.Unlocked
	}
	return b
}

// Evaluate unlocks every achievement whose predicate holds and returns
// the newly unlocked ones in catalogue order.
func (b *Book) Evaluate(f Facts) []Definition {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock.Now()
	var fresh []Definition
	for _, def := range catalogue {
		if _, ok := b.unlocked[def.ID]; ok {
			continue
		}
		if def.unlocked(f) {
			b.unlocked[def.ID] = now
			fresh = append(fresh, def)
		}
	}
	if len(fresh) > 0 {
		b.records.Save(store.KeyAchievements, Record{Unlocked: b.unlocked})
	}
	return fresh
}

// List returns the catalogue with unlock times, unlocked first.
func (b *Book) List() []Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Status, 0, len(catalogue))
	for _, def := range catalogue {
		s := Status{Definition: def}
		if at, ok := b.unlocked[def.ID]; ok {
			at := at
			s.UnlockedAt = &at
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnlockedAt != nil && out[j].UnlockedAt == nil
	})
	return out
}

// Count returns how many achievements are unlocked.
func (b *Book) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.unlocked)
}

// Wipe forgets every unlock.
func (b *Book) Wipe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unlocked = map[string]time.Time{}
	b.records.Save(store.KeyAchievements, Record{Unlocked: b.unlocked})
}
