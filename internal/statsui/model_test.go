package statsui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/stats"
)

func TestTrendDaysKeysReloadReport(t *testing.T) {
	var requested []int
	load := func(days int) (stats.Report, error) {
		requested = append(requested, days)
		return stats.Report{Month: model.DailySeries{Minutes: make([]int, days)}}, nil
	}
	m := NewModel(load, 30)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	want := []int{30, 37, 30, 23}
	if len(requested) != len(want) {
		t.Fatalf("expected %v, got %v", want, requested)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, requested)
		}
	}
}

func TestLoadErrorShownInFooter(t *testing.T) {
	m := NewModel(func(int) (stats.Report, error) { return stats.Report{}, errors.New("db locked") }, 0)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if view := m.View(); !strings.Contains(view, "db locked") {
		t.Fatalf("expected error in view")
	}
}

func TestClampTrendDays(t *testing.T) {
	if got := clampTrendDays(1); got != minTrendDays {
		t.Fatalf("expected %d, got %d", minTrendDays, got)
	}
	if got := clampTrendDays(500); got != maxTrendDays {
		t.Fatalf("expected %d, got %d", maxTrendDays, got)
	}
}
