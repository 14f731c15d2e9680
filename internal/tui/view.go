package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/stats"
)

var (
	modeStyles = map[model.Mode]lipgloss.Style{
		model.ModeFocus:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B5B")).Bold(true),
		model.ModeShortBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC38A")).Bold(true),
		model.ModeLongBreak:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4FA3E3")).Bold(true),
	}
	clockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 0)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	taskStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	rewardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E3B341"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{
		modeStyle(m.snap.Mode).Render(strings.ToUpper(m.snap.Mode.Label())),
		clockStyle.Render(formatClock(m.snap.RemainingSeconds)),
		m.bar.ViewAs(elapsedFraction(m.snap)),
		m.renderState(),
		m.renderTask(),
		"",
	}
	for _, n := range m.notices {
		lines = append(lines, noticeStyle(n.kind).Render(n.text))
	}
	if m.mode != inputNone {
		lines = append(lines, "", m.input.View())
	}
	if m.err != "" {
		lines = append(lines, "", errorStyle.Render(m.err))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	footer := m.renderFooter()
	helpView := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{content, footer, helpView}, "\n")
	}
	bottom := lipgloss.JoinVertical(lipgloss.Center, footer, helpView)
	bodyHeight := m.height - lipgloss.Height(bottom)
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, bottom)
}

func (m *Model) renderState() string {
	switch {
	case m.snap.Running:
		return infoStyle.Render("running")
	case m.snap.RemainingSeconds < m.snap.TotalSeconds:
		return pausedStyle.Render("paused")
	default:
		return pausedStyle.Render("press space to start")
	}
}

func (m *Model) renderTask() string {
	if m.overview.Selected == nil {
		return pausedStyle.Render("no task")
	}
	return taskStyle.Render("▸ " + m.overview.Selected.Name)
}

func (m *Model) renderFooter() string {
	ov := m.overview
	segments := []string{fmt.Sprintf("Level %d · %.0f%%", ov.Level, ov.LevelProgress*100)}
	segments = append(segments, fmt.Sprintf("%d XP", ov.Experience))
	segments = append(segments, fmt.Sprintf("Streak %d", ov.Streak))
	goal := fmt.Sprintf("Today %d/%d", ov.Goal.SessionsToday, ov.Goal.Target)
	if ov.Goal.Reached {
		goal += " ✓"
	}
	segments = append(segments, goal)
	segments = append(segments, fmt.Sprintf("Total %s", stats.FormatMinutes(ov.Totals.TotalMinutes)))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func modeStyle(m model.Mode) lipgloss.Style {
	if s, ok := modeStyles[m]; ok {
		return s
	}
	return infoStyle
}

func noticeStyle(k noticeKind) lipgloss.Style {
	switch k {
	case noticeReward:
		return rewardStyle
	case noticeWarn:
		return warnStyle
	default:
		return infoStyle
	}
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func elapsedFraction(s model.Snapshot) float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	return float64(s.ElapsedSeconds()) / float64(s.TotalSeconds)
}
