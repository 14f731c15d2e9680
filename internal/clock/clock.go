// Package clock abstracts wall-clock time and calendar-day math.
package clock

import (
	"sync"
	"time"
)

// DayLayout is the format of calendar-day keys.
const DayLayout = "2006-01-02"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// Real is the system clock.
type Real struct{}

// Now implements Clock.
func (Real) Now() time.Time {
	return time.Now()
}

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake clock set to t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now implements Clock.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// DayKey returns the calendar day of t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// DayKeyOffset returns the calendar day that is offset days from t.
func DayKeyOffset(t time.Time, offset int) string {
	y, m, d := t.Date()
	return time.Date(y, m, d+offset, 12, 0, 0, 0, t.Location()).Format(DayLayout)
}

// DaysBetween returns the number of calendar days from day a to day b.
// ok is false if either key is malformed.
func DaysBetween(a, b string) (days int, ok bool) {
	ta, err := time.ParseInLocation(DayLayout, a, time.UTC)
	if err != nil {
		return 0, false
	}
	tb, err := time.ParseInLocation(DayLayout, b, time.UTC)
	if err != nil {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}

// NextMidnight returns the start of the day after t.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
