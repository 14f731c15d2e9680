// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuidoro/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// FormatMinutes renders minutes as "1h 05m" or "25m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// RenderSummary prints level, streak, goal and lifetime totals.
func RenderSummary(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	next := "max"
	if r.NextLevelAt > 0 {
		next = fmt.Sprintf("%d", r.NextLevelAt)
	}
	lines := []string{
		fmt.Sprintf("Level: %d (%d / %s XP, %.0f%%)", r.Level, r.Experience, next, r.LevelProgress*100),
		fmt.Sprintf("Streak: %d day(s)", r.Streak),
		fmt.Sprintf("Today: %d / %d sessions", r.GoalSessions, r.GoalTarget),
		fmt.Sprintf("Sessions: %d", r.Totals.Sessions),
		fmt.Sprintf("Focus time: %s", FormatMinutes(r.Totals.TotalMinutes)),
		fmt.Sprintf("Avg session: %dm", r.Totals.AverageMinutes),
		fmt.Sprintf("Tasks completed: %d", r.TasksCompleted),
		fmt.Sprintf("Achievements: %d / %d", r.Unlocked, r.AchievementTotal),
	}
	if r.GoalReached {
		lines[2] += " (goal reached)"
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWeek prints a per-day table of the trailing week.
func RenderWeek(w io.Writer, week model.DailySeries) error {
	if len(week.Minutes) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Last %d Days  %s\n", len(week.Minutes), Sparkline(floats(week.Minutes))); err != nil {
		return err
	}
	rows := make([][]string, 0, len(week.Minutes))
	for i, m := range week.Minutes {
		rows = append(rows, []string{week.Labels[i], week.Dates[i], FormatMinutes(m)})
	}
	for _, line := range formatTable([]string{"Day", "Date", "Focus"}, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTasks prints focus time per task.
func RenderTasks(w io.Writer, tasks []TaskTotal) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Top Tasks"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.Name, fmt.Sprintf("%d", t.Sessions), FormatMinutes(t.Minutes)})
	}
	for _, line := range formatTable([]string{"Task", "Sessions", "Focus"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints the trailing month as a bar chart sized to totalWidth.
func RenderTrend(w io.Writer, r Report, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotBars(w, fmt.Sprintf("Last %d Days", len(r.Month.Minutes)), r.Month, width, height, useColor)
}
