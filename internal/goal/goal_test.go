package goal

import (
	"testing"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/store"
)

func TestBonusGrantedOncePerDay(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, time.May, 6, 8, 0, 0, 0, time.UTC))
	tr := New(clk, store.NewRecords(store.NewMemory()))

	bonuses := 0
	for i := 1; i <= Target+2; i++ {
		p := tr.RecordSession()
		if p.SessionsToday != i {
			t.Fatalf("expected %d sessions, got %d", i, p.SessionsToday)
		}
		if p.JustReached {
			if i != Target || p.Bonus != BonusXP {
				t.Fatalf("unexpected bonus at session %d: %+v", i, p)
			}
			bonuses++
		}
	}
	if bonuses != 1 {
		t.Fatalf("expected exactly one bonus, got %d", bonuses)
	}

	clk.Advance(24 * time.Hour)
	if s := tr.Status(); s.SessionsToday != 0 || s.Reached {
		t.Fatalf("expected reset on a new day, got %+v", s)
	}
	for i := 0; i < Target-1; i++ {
		tr.RecordSession()
	}
	if p := tr.RecordSession(); !p.JustReached || p.Bonus != BonusXP {
		t.Fatalf("expected bonus again on the next day, got %+v", p)
	}
}

func TestStatePersists(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, time.May, 6, 8, 0, 0, 0, time.UTC))
	mem := store.NewMemory()
	tr := New(clk, store.NewRecords(mem))
	tr.RecordSession()
	tr.RecordSession()

	reloaded := New(clk, store.NewRecords(mem))
	if s := reloaded.Status(); s.SessionsToday != 2 {
		t.Fatalf("expected 2 sessions after reload, got %+v", s)
	}
}
