package prefs

import (
	"testing"

	"github.com/verte-zerg/tuidoro/internal/store"
)

func TestSetFocusMinutesClampsAndPersists(t *testing.T) {
	mem := store.NewMemory()
	s := New(store.NewRecords(mem))
	if got := s.SetFocusMinutes(500); got != MaxFocusMinutes {
		t.Fatalf("expected clamp to %d, got %d", MaxFocusMinutes, got)
	}
	if got := s.SetFocusMinutes(0); got != MinFocusMinutes {
		t.Fatalf("expected clamp to %d, got %d", MinFocusMinutes, got)
	}
	s.SetFocusMinutes(50)
	if got := New(store.NewRecords(mem)).Get().FocusMinutes; got != 50 {
		t.Fatalf("expected 50 after reload, got %d", got)
	}
}

func TestClearFocusMinutesPersists(t *testing.T) {
	mem := store.NewMemory()
	s := New(store.NewRecords(mem))
	s.SetFocusMinutes(40)
	s.ClearFocusMinutes()
	if got := New(store.NewRecords(mem)).Get().FocusMinutes; got != 0 {
		t.Fatalf("expected cleared preference after reload, got %d", got)
	}
}
