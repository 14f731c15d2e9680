// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/prefs"
	"github.com/verte-zerg/tuidoro/internal/session"
	"github.com/verte-zerg/tuidoro/internal/task"
)

const maxNotices = 4

type inputMode int

const (
	inputNone inputMode = iota
	inputDuration
	inputTask
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeReward
	noticeWarn
)

type notice struct {
	kind noticeKind
	text string
}

// refreshMsg is returned by commands once an orchestrator call finished.
type refreshMsg struct{}

// RolloverMsg asks the model to refresh day-scoped values.
type RolloverMsg struct{}

// Model implements the Bubble Tea timer UI.
type Model struct {
	orch  *session.Orchestrator
	tasks *task.List
	bell  io.Writer

	keys  keyMap
	help  help.Model
	bar   progress.Model
	input textinput.Model
	mode  inputMode
	err   string

	snap     model.Snapshot
	overview session.Overview
	notices  []notice

	width  int
	height int
}

// NewModel constructs the timer UI. bell receives the terminal bell on live
// completions and may be nil.
func NewModel(orch *session.Orchestrator, tasks *task.List, bell io.Writer) *Model {
	input := textinput.New()
	input.CharLimit = task.MaxNameLength
	m := &Model{
		orch:  orch,
		tasks: tasks,
		bell:  bell,
		keys:  defaultKeys(),
		help:  help.New(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input: input,
	}
	m.refresh()
	return m
}

// Replay applies events emitted before the program started, such as a
// completion detected during restoration.
func (m *Model) Replay(events []session.Event) {
	for _, ev := range events {
		m.handleEvent(ev)
	}
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
		m.help.Width = msg.Width
		m.bar.Width = clampInt(msg.Width/2, 10, 60)
		return m, nil
	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil
	case refreshMsg, RolloverMsg:
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m, m.run(m.orch.Toggle)
	case key.Matches(msg, m.keys.Reset):
		return m, m.run(m.orch.Reset)
	case key.Matches(msg, m.keys.Skip):
		return m, m.run(m.orch.Skip)
	case key.Matches(msg, m.keys.Focus):
		return m, m.run(func() { m.orch.SetMode(model.ModeFocus) })
	case key.Matches(msg, m.keys.ShortBreak):
		return m, m.run(func() { m.orch.SetMode(model.ModeShortBreak) })
	case key.Matches(msg, m.keys.LongBreak):
		return m, m.run(func() { m.orch.SetMode(model.ModeLongBreak) })
	case key.Matches(msg, m.keys.Duration):
		return m, m.startInput(inputDuration, "Focus minutes (empty resets): ", strconv.Itoa(m.orch.FocusDuration()/60))
	case key.Matches(msg, m.keys.AddTask):
		return m, m.startInput(inputTask, "New task: ", "")
	case key.Matches(msg, m.keys.NextTask):
		m.cycleTask()
		return m, nil
	case key.Matches(msg, m.keys.CompleteTask):
		return m, m.completeSelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// run calls fn off the update loop. Orchestrator calls may emit events,
// which are sent back into the program and would block if sent from here.
func (m *Model) run(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return refreshMsg{}
	}
}

func (m *Model) startInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.stopInput()
		switch mode {
		case inputDuration:
			if value == "" {
				return m, m.run(func() { m.orch.ClearCustomFocusDuration() })
			}
			minutes, err := strconv.Atoi(value)
			if err != nil {
				m.err = fmt.Sprintf("focus length must be %d-%d minutes", prefs.MinFocusMinutes, prefs.MaxFocusMinutes)
				return m, nil
			}
			return m, m.run(func() { m.orch.SetCustomFocusDuration(minutes) })
		case inputTask:
			t, err := m.tasks.Add(value)
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			if _, err := m.orch.SelectTask(t.ID); err != nil {
				slog.Warn("select new task", "error", err)
			}
			m.pushNotice(noticeInfo, "Added task: "+t.Name)
			m.refresh()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) cycleTask() {
	pending := m.tasks.Pending()
	if len(pending) == 0 {
		m.orch.ClearTask()
		m.err = "no pending tasks; press a to add one"
		m.refresh()
		return
	}
	next := 0
	if sel := m.orch.SelectedTask(); sel != nil {
		for i, t := range pending {
			if t.ID == sel.ID {
				next = i + 1
				break
			}
		}
	}
	if next >= len(pending) {
		m.orch.ClearTask()
	} else if _, err := m.orch.SelectTask(pending[next].ID); err != nil {
		m.err = err.Error()
	}
	m.refresh()
}

func (m *Model) completeSelected() tea.Cmd {
	sel := m.orch.SelectedTask()
	if sel == nil {
		m.err = "no task selected"
		return nil
	}
	return func() tea.Msg {
		if _, err := m.orch.CompleteTask(sel.ID); err != nil {
			if errors.Is(err, task.ErrNotFound) {
				m.orch.ClearTask()
			}
			slog.Warn("complete task", "id", sel.ID, "error", err)
		}
		return refreshMsg{}
	}
}

func (m *Model) handleEvent(ev session.Event) {
	switch e := ev.(type) {
	case session.TickEvent:
		m.snap = e.Snapshot
		return
	case session.XPEvent:
		if e.Award.Amount > 0 && e.Source != session.XPTask {
			m.pushNotice(noticeReward, fmt.Sprintf("+%d XP (%s)", e.Award.Amount, e.Source))
		}
		if e.Award.LeveledUp {
			m.pushNotice(noticeReward, fmt.Sprintf("Level up! You are now level %d", e.Award.Level))
		}
	case session.StreakEvent:
		switch {
		case e.Streak == 0 && m.overview.Streak > 0:
			m.pushNotice(noticeWarn, "Streak lost")
		case e.Streak > m.overview.Streak:
			m.pushNotice(noticeReward, fmt.Sprintf("Streak: %d day(s)", e.Streak))
		}
	case session.GoalEvent:
		if e.Progress.JustReached {
			m.pushNotice(noticeReward, fmt.Sprintf("Daily goal reached: %d sessions", e.Progress.Target))
		}
	case session.AchievementEvent:
		m.pushNotice(noticeReward, "Achievement unlocked: "+e.Achievement.Title)
	case session.TaskEvent:
		if e.Reward.Granted {
			m.pushNotice(noticeReward, fmt.Sprintf("Task done: %s (+%d XP)", e.Task.Name, e.Reward.Award.Amount))
		} else {
			m.pushNotice(noticeWarn, fmt.Sprintf("Task done: %s (reward limit reached, no XP)", e.Task.Name))
		}
	case session.CompleteEvent:
		text := fmt.Sprintf("%s complete. Next: %s", e.Mode.Label(), e.Next.Label())
		if e.Restored {
			text = fmt.Sprintf("%s finished while you were away. Next: %s", e.Mode.Label(), e.Next.Label())
		} else {
			m.ring()
		}
		m.pushNotice(noticeInfo, text)
	}
	m.refresh()
}

func (m *Model) ring() {
	if m.bell == nil {
		return
	}
	if _, err := io.WriteString(m.bell, "\a"); err != nil {
		// Best-effort bell.
		_ = err
	}
}

func (m *Model) pushNotice(kind noticeKind, text string) {
	m.notices = append(m.notices, notice{kind: kind, text: text})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m *Model) refresh() {
	m.overview = m.orch.Overview()
	m.snap = m.overview.Snapshot
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
