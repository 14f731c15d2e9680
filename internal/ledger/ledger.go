// Package ledger keeps the append-only history of completed focus sessions.
package ledger

import (
	"math"
	"sync"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

const (
	// Retention is how long records survive; older ones are pruned on write.
	Retention = 90 * 24 * time.Hour
	// StreakScanDays bounds the history streak scan.
	StreakScanDays = 365
)

// Ledger owns the history record.
type Ledger struct {
	mu      sync.Mutex
	clock   clock.Clock
	records *store.Records
	entries []model.SessionRecord
}

// New loads the history record, falling back to an empty ledger.
func New(clk clock.Clock, records *store.Records) *Ledger {
	l := &Ledger{clock: clk, records: records}
	var entries []model.SessionRecord
	if records.Load(store.KeyHistory, &entries) {
		l.entries = entries
	}
	return l
}

// Record appends a session of durationMinutes. Non-positive durations are
// rejected and return nil.
func (l *Ledger) Record(durationMinutes int, task *model.TaskRef) *model.SessionRecord {
	if durationMinutes <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	rec := model.SessionRecord{
		DateKey:         clock.DayKey(now),
		DurationMinutes: durationMinutes,
		CompletedAt:     now,
	}
	if task != nil {
		rec.TaskID = task.ID
		rec.TaskName = task.Name
	}
	l.entries = append(l.entries, rec)
	l.pruneLocked(now)
	l.records.Save(store.KeyHistory, l.entries)
	return &rec
}

func (l *Ledger) pruneLocked(now time.Time) {
	cutoff := now.Add(-Retention)
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.CompletedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
}

// Entries returns a copy of the history, oldest first.
func (l *Ledger) Entries() []model.SessionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.SessionRecord(nil), l.entries...)
}

// CountOn returns the number of sessions recorded on the given day.
func (l *Ledger) CountOn(dateKey string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, e := range l.entries {
		if e.DateKey == dateKey {
			count++
		}
	}
	return count
}

// CountToday returns the number of sessions recorded today.
func (l *Ledger) CountToday() int {
	return l.CountOn(clock.DayKey(l.clock.Now()))
}

// AggregateLastNDays sums minutes for each of the trailing n days, oldest
// first. Days without sessions are reported as zero.
func (l *Ledger) AggregateLastNDays(n int) model.DailySeries {
	if n <= 0 {
		n = 7
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	byDay := make(map[string]int, len(l.entries))
	for _, e := range l.entries {
		byDay[e.DateKey] += e.DurationMinutes
	}
	series := model.DailySeries{
		Minutes: make([]int, n),
		Labels:  make([]string, n),
		Dates:   make([]string, n),
	}
	for i := 0; i < n; i++ {
		offset := i - (n - 1)
		key := clock.DayKeyOffset(now, offset)
		y, m, d := now.Date()
		day := time.Date(y, m, d+offset, 12, 0, 0, 0, now.Location())
		series.Dates[i] = key
		series.Labels[i] = day.Format("Mon")
		series.Minutes[i] = byDay[key]
	}
	return series
}

// Totals sums every recorded session.
func (l *Ledger) Totals() model.Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	var t model.Totals
	for _, e := range l.entries {
		t.TotalMinutes += e.DurationMinutes
	}
	t.Sessions = len(l.entries)
	if t.Sessions > 0 {
		t.AverageMinutes = int(math.Round(float64(t.TotalMinutes) / float64(t.Sessions)))
	}
	return t
}

// StreakFromHistory counts consecutive days with sessions, scanning back
// from today. Today without a session does not break the streak.
func (l *Ledger) StreakFromHistory() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	days := make(map[string]struct{}, len(l.entries))
	for _, e := range l.entries {
		days[e.DateKey] = struct{}{}
	}
	streak := 0
	for i := 0; i < StreakScanDays; i++ {
		if _, ok := days[clock.DayKeyOffset(now, -i)]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}
