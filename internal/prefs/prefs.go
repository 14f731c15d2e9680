// Package prefs persists user preferences changed at runtime.
package prefs

import (
	"sync"

	"github.com/verte-zerg/tuidoro/internal/store"
)

const (
	MinFocusMinutes = 1
	MaxFocusMinutes = 120
)

// Preferences is the durable preferences record.
type Preferences struct {
	// FocusMinutes overrides the configured focus duration when non-zero.
	FocusMinutes int `json:"focusMinutes,omitempty" yaml:"focusMinutes,omitempty"`
}

// Store owns the preferences record.
type Store struct {
	mu      sync.Mutex
	records *store.Records
	prefs   Preferences
}

// New loads the preferences record.
func New(records *store.Records) *Store {
	s := &Store{records: records}
	var p Preferences
	if records.Load(store.KeyPreferences, &p) {
		if p.FocusMinutes != 0 {
			p.FocusMinutes = ClampFocusMinutes(p.FocusMinutes)
		}
		s.prefs = p
	}
	return s
}

// Get returns the current preferences.
func (s *Store) Get() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetFocusMinutes stores a clamped custom focus duration and returns it.
func (s *Store) SetFocusMinutes(minutes int) int {
	minutes = ClampFocusMinutes(minutes)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.FocusMinutes = minutes
	s.records.Save(store.KeyPreferences, s.prefs)
	return minutes
}

// ClearFocusMinutes removes the custom focus duration.
func (s *Store) ClearFocusMinutes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.FocusMinutes = 0
	s.records.Save(store.KeyPreferences, s.prefs)
}

// ClampFocusMinutes limits minutes to the supported range.
func ClampFocusMinutes(minutes int) int {
	if minutes < MinFocusMinutes {
		return MinFocusMinutes
	}
	if minutes > MaxFocusMinutes {
		return MaxFocusMinutes
	}
	return minutes
}
