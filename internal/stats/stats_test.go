package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuidoro/internal/model"
)

func TestSparklineFlatAndRange(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(25); got != "25m" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatMinutes(125); got != "2h 05m" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestRenderSummaryAndWeek(t *testing.T) {
	r := Report{
		Experience:       600,
		Level:            2,
		LevelProgress:    100.0 / 700.0,
		NextLevelAt:      1200,
		Streak:           3,
		GoalSessions:     4,
		GoalTarget:       4,
		GoalReached:      true,
		Totals:           model.Totals{TotalMinutes: 150, Sessions: 6, AverageMinutes: 25},
		Unlocked:         2,
		AchievementTotal: 14,
		Week: model.DailySeries{
			Minutes: []int{0, 50},
			Labels:  []string{"Sun", "Mon"},
			Dates:   []string{"2024-05-05", "2024-05-06"},
		},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, r); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if err := RenderWeek(&buf, r.Week); err != nil {
		t.Fatalf("RenderWeek failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Level: 2 (600 / 1200 XP, 14%)",
		"Today: 4 / 4 sessions (goal reached)",
		"Focus time: 2h 30m",
		"Achievements: 2 / 14",
		"Last 2 Days   @",
		"Mon 2024-05-06   50m",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
