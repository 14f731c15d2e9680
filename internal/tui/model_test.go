package tui

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuidoro/internal/achievement"
	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/goal"
	"github.com/verte-zerg/tuidoro/internal/ledger"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/prefs"
	"github.com/verte-zerg/tuidoro/internal/progress"
	"github.com/verte-zerg/tuidoro/internal/session"
	"github.com/verte-zerg/tuidoro/internal/store"
	"github.com/verte-zerg/tuidoro/internal/streak"
	"github.com/verte-zerg/tuidoro/internal/task"
	"github.com/verte-zerg/tuidoro/internal/timer"
)

func newTestModel(t *testing.T, bell io.Writer) (*Model, *task.List) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC))
	records := store.NewRecords(store.NewMemory())
	tasks := task.New(clk, records)
	orch := session.New(session.Deps{
		Clock:        clk,
		Engine:       timer.New(clk, records, timer.IdleScheduler{}),
		Ledger:       ledger.New(clk, records),
		Progress:     progress.New(clk, records),
		Streak:       streak.New(clk, records),
		Goal:         goal.New(clk, records),
		Achievements: achievement.New(clk, records),
		Tasks:        tasks,
		Prefs:        prefs.New(records),
		Durations:    model.DefaultDurations(),
	}, nil)
	orch.Restore()
	return NewModel(orch, tasks, bell), tasks
}

func TestCompletionRingsOnlyWhenLive(t *testing.T) {
	var bell bytes.Buffer
	m, _ := newTestModel(t, &bell)
	m.Replay([]session.Event{session.CompleteEvent{Mode: model.ModeFocus, Next: model.ModeShortBreak, Restored: true}})
	if bell.Len() != 0 {
		t.Fatalf("restored completion must not ring")
	}
	m.Update(EventMsg{Event: session.CompleteEvent{Mode: model.ModeFocus, Next: model.ModeShortBreak}})
	if bell.String() != "\a" {
		t.Fatalf("expected one bell, got %q", bell.String())
	}
	if len(m.notices) != 2 || !strings.Contains(m.notices[0].text, "while you were away") {
		t.Fatalf("unexpected notices: %+v", m.notices)
	}
}

func TestTaskRewardNotices(t *testing.T) {
	m, _ := newTestModel(t, nil)
	tk := model.Task{ID: "x", Name: "inbox"}
	m.Update(EventMsg{Event: session.TaskEvent{Task: tk, Reward: progress.TaskReward{Granted: true, Award: progress.Award{Amount: progress.TaskXP}}}})
	m.Update(EventMsg{Event: session.TaskEvent{Task: tk}})
	if len(m.notices) != 2 {
		t.Fatalf("expected 2 notices, got %+v", m.notices)
	}
	if m.notices[0].kind != noticeReward || !strings.Contains(m.notices[0].text, "+25 XP") {
		t.Fatalf("unexpected granted notice: %+v", m.notices[0])
	}
	if m.notices[1].kind != noticeWarn || !strings.Contains(m.notices[1].text, "no XP") {
		t.Fatalf("unexpected suppressed notice: %+v", m.notices[1])
	}
}

func TestNoticesAreCapped(t *testing.T) {
	m, _ := newTestModel(t, nil)
	for i := 0; i < maxNotices+3; i++ {
		m.pushNotice(noticeInfo, "n")
	}
	if len(m.notices) != maxNotices {
		t.Fatalf("expected %d notices, got %d", maxNotices, len(m.notices))
	}
}

func TestAddTaskSelectsIt(t *testing.T) {
	m, tasks := newTestModel(t, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.mode != inputTask {
		t.Fatalf("expected task input mode")
	}
	m.input.SetValue("plan week")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != inputNone {
		t.Fatalf("expected input closed")
	}
	if pending := tasks.Pending(); len(pending) != 1 || pending[0].Name != "plan week" {
		t.Fatalf("unexpected tasks: %+v", pending)
	}
	if m.overview.Selected == nil || m.overview.Selected.Name != "plan week" {
		t.Fatalf("expected new task selected, got %+v", m.overview.Selected)
	}
}

func TestBridgeHoldsEventsUntilAttached(t *testing.T) {
	b := NewBridge()
	b.Emit(session.StreakEvent{Streak: 2})
	pending := b.Attach(nil)
	if len(pending) != 1 {
		t.Fatalf("expected one held event, got %d", len(pending))
	}
}
