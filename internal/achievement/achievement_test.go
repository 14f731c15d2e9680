package achievement

import (
	"testing"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/store"
)

func TestEvaluateUnlocksOnce(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, time.May, 6, 23, 0, 0, 0, time.UTC))
	mem := store.NewMemory()
	b := New(clk, store.NewRecords(mem))

	fresh := b.Evaluate(Facts{TotalSessions: 1, Level: 1, Hour: 23})
	ids := map[string]bool{}
	for _, d := range fresh {
		ids[d.ID] = true
	}
	if len(fresh) != 2 || !ids["first_session"] || !ids["night_owl"] {
		t.Fatalf("unexpected unlocks: %+v", fresh)
	}
	if again := b.Evaluate(Facts{TotalSessions: 2, Level: 1, Hour: 23}); len(again) != 0 {
		t.Fatalf("expected no repeat unlocks, got %+v", again)
	}

	reloaded := New(clk, store.NewRecords(mem))
	if reloaded.Count() != 2 {
		t.Fatalf("expected unlocks to persist, got %d", reloaded.Count())
	}
	list := reloaded.List()
	if len(list) != len(Catalogue()) || list[0].UnlockedAt == nil || list[len(list)-1].UnlockedAt != nil {
		t.Fatalf("expected unlocked achievements listed first: %+v", list[:2])
	}
}

func TestHourUnknownDoesNotUnlockTimeOfDay(t *testing.T) {
	b := New(clock.NewFake(time.Now()), store.NewRecords(store.NewMemory()))
	for _, d := range b.Evaluate(Facts{Hour: -1, TasksCompleted: 10}) {
		if d.ID == "early_bird" || d.ID == "night_owl" {
			t.Fatalf("unexpected time-of-day unlock %s", d.ID)
		}
	}
}
