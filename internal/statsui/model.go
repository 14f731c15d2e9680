// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuidoro/internal/stats"
)

const (
	tabOverview = iota
	tabTasks
	tabAchievements
)

const (
	plotHeight    = 8
	minTrendDays  = 7
	maxTrendDays  = 90
	trendDaysStep = 7
	topTasks      = 50
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#D9534F"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E3B341")).Bold(true)
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
)

// Loader builds a report covering trendDays of history.
type Loader func(trendDays int) (stats.Report, error)

// Model implements the Bubble Tea stats UI.
type Model struct {
	load      Loader
	trendDays int

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	taskTable table.Model

	width  int
	height int

	daysMode  bool
	daysInput textinput.Model
	daysError string
}

// NewModel constructs a stats UI model.
func NewModel(load Loader, trendDays int) *Model {
	if trendDays <= 0 {
		trendDays = stats.DefaultTrendDays
	}
	m := &Model{
		load:      load,
		trendDays: clampTrendDays(trendDays),
		tabs:      []string{"Overview", "Tasks", "Achievements"},
	}
	m.daysInput = textinput.New()
	m.daysInput.Prompt = "Trend days: "
	m.daysInput.CharLimit = 3
	m.daysInput.Cursor.SetMode(cursor.CursorBlink)
	m.taskTable = table.New(
		table.WithColumns(taskColumns(80)),
		table.WithHeight(1),
	)
	m.taskTable.SetStyles(taskTableStyles())
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.daysMode {
			return m.updateDays(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.trendDays = clampTrendDays(m.trendDays + trendDaysStep)
			m.refreshReport()
			return m, nil
		case "-":
			m.trendDays = clampTrendDays(m.trendDays - trendDaysStep)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		case "/":
			m.daysMode = true
			m.daysError = ""
			m.daysInput.SetValue(strconv.Itoa(m.trendDays))
			return m, m.daysInput.Focus()
		case "g", "home":
			if m.activeTab == tabTasks {
				m.taskTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTasks {
				m.taskTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabTasks {
				m.taskTable, cmd = m.taskTable.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateDays(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.daysMode = false
		m.daysError = ""
		m.daysInput.Blur()
		return m, nil
	case tea.KeyEnter:
		days, err := strconv.Atoi(strings.TrimSpace(m.daysInput.Value()))
		if err != nil || days < minTrendDays || days > maxTrendDays {
			m.daysError = fmt.Sprintf("use a number between %d and %d", minTrendDays, maxTrendDays)
			return m, nil
		}
		m.daysMode = false
		m.daysError = ""
		m.daysInput.Blur()
		m.trendDays = days
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.daysInput, cmd = m.daysInput.Update(msg)
	return m, cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.daysError != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.taskTable.SetColumns(taskColumns(m.width))
	m.taskTable.SetWidth(m.width)
	m.taskTable.SetHeight(maxInt(1, bodyHeight-1))
	m.daysInput.Width = maxInt(4, m.width-lipgloss.Width(m.daysInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabTasks {
		m.taskTable.Focus()
	} else {
		m.taskTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := m.load(m.trendDays)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.taskTable.SetRows(taskRows(report.Tasks))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabAchievements].SetContent(renderAchievements(m.report))
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	summary := fmt.Sprintf("Trend: last %d days", m.trendDays)
	if m.daysMode {
		summary = m.daysInput.View()
	}
	return padLines(tabs, m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabTasks {
		if len(m.report.Tasks) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.taskTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Trend: -/=  Days: /  Refresh: r  Quit: q"
	if m.daysMode {
		help = "enter: apply  esc: cancel"
	}
	out := headerStyle.Render(help)
	switch {
	case m.daysError != "":
		out += "\n" + errorStyle.Render(m.daysError)
	case m.errMsg != "":
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func renderOverview(r stats.Report, width int) string {
	cards := []string{
		metricCard("Level", fmt.Sprintf("%d  %3.0f%%", r.Level, r.LevelProgress*100)),
		metricCard("Experience", fmt.Sprintf("%d XP", r.Experience)),
		metricCard("Streak", fmt.Sprintf("%d days", r.Streak)),
		metricCard("Today", fmt.Sprintf("%d / %d", r.GoalSessions, r.GoalTarget)),
		metricCard("Focus time", stats.FormatMinutes(r.Totals.TotalMinutes)),
		metricCard("Sessions", fmt.Sprintf("%d", r.Totals.Sessions)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, r, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	if err := stats.RenderWeek(&buf, r.Week); err != nil {
		return fmt.Sprintf("Failed to render week: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderAchievements(r stats.Report) string {
	if len(r.Achievements) == 0 {
		return "No achievements."
	}
	lines := []string{headerStyle.Render(fmt.Sprintf("Unlocked %d of %d", r.Unlocked, r.AchievementTotal)), ""}
	for _, a := range r.Achievements {
		if a.UnlockedAt != nil {
			lines = append(lines,
				unlockedStyle.Render("★ "+a.Title)+"  "+headerStyle.Render(a.UnlockedAt.Local().Format("2006-01-02")),
				"  "+a.Description)
			continue
		}
		lines = append(lines, lockedStyle.Render("☆ "+a.Title), lockedStyle.Render("  "+a.Description))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func taskColumns(width int) []table.Column {
	nameWidth := maxInt(12, width-24)
	return []table.Column{
		{Title: "Task", Width: nameWidth},
		{Title: "Sessions", Width: 9},
		{Title: "Focus", Width: 10},
	}
}

func taskRows(tasks []stats.TaskTotal) []table.Row {
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, table.Row{t.Name, strconv.Itoa(t.Sessions), stats.FormatMinutes(t.Minutes)})
	}
	return rows
}

func taskTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func clampTrendDays(days int) int {
	return minInt(maxTrendDays, maxInt(minTrendDays, days))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
