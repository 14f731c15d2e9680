package stats

import (
	"testing"

	"github.com/verte-zerg/tuidoro/internal/model"
)

func TestTopTasks(t *testing.T) {
	entries := []model.SessionRecord{
		{TaskID: "a", TaskName: "alpha", DurationMinutes: 25},
		{DurationMinutes: 25},
		{TaskID: "b", TaskName: "beta", DurationMinutes: 50},
		{TaskID: "a", TaskName: "alpha v2", DurationMinutes: 30},
		{DurationMinutes: 5},
	}
	top := TopTasks(entries, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(top))
	}
	if top[0].Name != "alpha v2" || top[0].Minutes != 55 || top[0].Sessions != 2 {
		t.Fatalf("unexpected first task: %+v", top[0])
	}
	if top[1].Name != "beta" {
		t.Fatalf("unexpected order: %+v", top)
	}
}
