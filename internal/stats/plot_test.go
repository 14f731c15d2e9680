package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuidoro/internal/model"
)

func TestPlotBars(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	series := model.DailySeries{
		Minutes: []int{0, 25, 50, 100},
		Dates:   []string{"2024-05-03", "2024-05-04", "2024-05-05", "2024-05-06"},
	}
	if err := PlotBars(&buf, "Trend", series, 10, 2, false); err != nil {
		t.Fatalf("PlotBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "Trend" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != "1h 40m │    █" {
		t.Fatalf("unexpected top row %q", lines[1])
	}
	if lines[2] != "    0m │  ▄██" {
		t.Fatalf("unexpected bottom row %q", lines[2])
	}
	if !strings.Contains(lines[3], "2024-05-03 .. 2024-05-06") {
		t.Fatalf("expected date range, got %q", lines[3])
	}
}

func TestPlotBarsKeepsNewestDays(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	minutes := make([]int, 30)
	minutes[29] = 10
	if err := PlotBars(&buf, "", model.DailySeries{Minutes: minutes}, minPlotWidth, 1, false); err != nil {
		t.Fatalf("PlotBars failed: %v", err)
	}
	first := strings.Split(buf.String(), "\n")[0]
	if !strings.HasSuffix(first, "█") {
		t.Fatalf("expected newest day drawn, got %q", first)
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-3 {
		t.Fatalf("expected width %d, got %d", 80-axisLabelWidth-3, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}
