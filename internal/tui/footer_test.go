package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/tuidoro/internal/goal"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		overview: session.Overview{
			Level:         3,
			LevelProgress: 0.456,
			Experience:    1520,
			Streak:        4,
			Goal:          goal.Progress{SessionsToday: 4, Target: 4, Reached: true},
			Totals:        model.Totals{TotalMinutes: 65},
		},
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Level 3 · 46%", "1520 XP", "Streak 4", "Today 4/4 ✓", "Total 1h 05m"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(1500); got != "25:00" {
		t.Fatalf("unexpected clock %q", got)
	}
	if got := formatClock(7199); got != "119:59" {
		t.Fatalf("unexpected clock %q", got)
	}
	if got := formatClock(-3); got != "00:00" {
		t.Fatalf("unexpected clock %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
