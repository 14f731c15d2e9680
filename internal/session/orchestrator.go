// Package session wires the timer engine to the ledgers and drives the
// completion pipeline.
package session

import (
	"log/slog"
	"sync"

	"github.com/verte-zerg/tuidoro/internal/achievement"
	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/goal"
	"github.com/verte-zerg/tuidoro/internal/ledger"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/prefs"
	"github.com/verte-zerg/tuidoro/internal/progress"
	"github.com/verte-zerg/tuidoro/internal/streak"
	"github.com/verte-zerg/tuidoro/internal/task"
	"github.com/verte-zerg/tuidoro/internal/timer"
)

// Deps are the components an Orchestrator drives.
type Deps struct {
	Clock        clock.Clock
	Engine       *timer.Engine
	Ledger       *ledger.Ledger
	Progress     *progress.Accountant
	Streak       *streak.Tracker
	Goal         *goal.Tracker
	Achievements *achievement.Book
	Tasks        *task.List
	Prefs        *prefs.Store
	Durations    model.Durations
}

// Orchestrator serializes user commands and completions. Events are
// delivered after the internal lock is released, in pipeline order.
type Orchestrator struct {
	mu   sync.Mutex
	deps Deps
	emit func(Event)

	selected *model.TaskRef
}

// New registers the orchestrator as the engine's observer. Call Restore
// before any other method.
func New(deps Deps, emit func(Event)) *Orchestrator {
	if emit == nil {
		emit = func(Event) {}
	}
	if deps.Durations.LongBreakEvery <= 0 {
		deps.Durations.LongBreakEvery = model.DefaultDurations().LongBreakEvery
	}
	o := &Orchestrator{deps: deps, emit: emit}
	deps.Engine.OnTick(func(s model.Snapshot) { o.emit(TickEvent{Snapshot: s}) })
	deps.Engine.OnComplete(o.engineCompleted)
	return o
}

// Restore applies the persisted timer. A countdown that finished while the
// process was down runs through the same pipeline as a live completion.
func (o *Orchestrator) Restore() timer.Restoration {
	o.mu.Lock()
	r := o.deps.Engine.Restore()
	var events []Event
	switch r.Kind {
	case timer.RestoreCompleted:
		slog.Debug("restored completed session", "mode", r.Mode, "total", r.TotalSeconds)
		events = o.completeLocked(r.Mode, r.TotalSeconds, true)
	case timer.RestoreNone:
		o.configureLocked(model.ModeFocus)
	default:
		o.deps.Engine.Apply(r)
	}
	o.mu.Unlock()
	o.flush(events)
	return r
}

// Start begins or resumes the countdown.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deps.Engine.Start()
}

// Pause freezes the countdown.
func (o *Orchestrator) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deps.Engine.Pause()
}

// Toggle starts a paused countdown or pauses a running one.
func (o *Orchestrator) Toggle() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.deps.Engine.Snapshot().Running {
		o.deps.Engine.Pause()
		return
	}
	o.deps.Engine.Start()
}

// Reset refills the current mode and drops the persisted timer. A countdown
// that already reached zero is settled first.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	events := o.settleLocked()
	o.deps.Engine.Reset()
	o.mu.Unlock()
	o.flush(events)
}

// Skip ends the current countdown early. A focus countdown with at least one
// elapsed minute is recorded as a partial session first. A countdown that
// already reached zero is completed instead of skipped.
func (o *Orchestrator) Skip() {
	o.mu.Lock()
	if events := o.settleLocked(); events != nil {
		o.mu.Unlock()
		o.flush(events)
		return
	}
	snap := o.deps.Engine.Snapshot()
	o.deps.Engine.Pause()
	var events []Event
	if snap.Mode == model.ModeFocus && snap.ElapsedSeconds() >= 60 {
		events = o.completeLocked(snap.Mode, snap.ElapsedSeconds(), false)
	} else {
		o.configureLocked(o.nextModeLocked(snap.Mode, false))
	}
	o.mu.Unlock()
	o.flush(events)
}

// SetMode switches to m with its configured duration.
func (o *Orchestrator) SetMode(m model.Mode) {
	if !m.Valid() {
		return
	}
	o.mu.Lock()
	events := o.settleLocked()
	o.configureLocked(m)
	o.mu.Unlock()
	o.flush(events)
}

// SetCustomFocusDuration stores a focus length clamped to 1..120 minutes and
// returns it. An idle focus countdown picks it up immediately.
func (o *Orchestrator) SetCustomFocusDuration(minutes int) int {
	o.mu.Lock()
	events := o.settleLocked()
	minutes = o.deps.Prefs.SetFocusMinutes(minutes)
	o.refreshIdleFocusLocked()
	o.mu.Unlock()
	o.flush(events)
	return minutes
}

// ClearCustomFocusDuration drops the stored focus length so the configured
// one applies again. It returns the effective focus length in seconds.
func (o *Orchestrator) ClearCustomFocusDuration() int {
	o.mu.Lock()
	events := o.settleLocked()
	o.deps.Prefs.ClearFocusMinutes()
	o.refreshIdleFocusLocked()
	seconds := o.durationLocked(model.ModeFocus)
	o.mu.Unlock()
	o.flush(events)
	return seconds
}

func (o *Orchestrator) refreshIdleFocusLocked() {
	snap := o.deps.Engine.Snapshot()
	if snap.Mode == model.ModeFocus && !snap.Running {
		o.configureLocked(model.ModeFocus)
	}
}

// Snapshot returns the current timer state.
func (o *Orchestrator) Snapshot() model.Snapshot {
	return o.deps.Engine.Snapshot()
}

// SelectTask attaches a task to subsequent focus sessions.
func (o *Orchestrator) SelectTask(id string) (model.Task, error) {
	t, err := o.deps.Tasks.Get(id)
	if err != nil {
		return model.Task{}, err
	}
	o.mu.Lock()
	o.selected = &model.TaskRef{ID: t.ID, Name: t.Name}
	o.mu.Unlock()
	return t, nil
}

// ClearTask detaches the selected task.
func (o *Orchestrator) ClearTask() {
	o.mu.Lock()
	o.selected = nil
	o.mu.Unlock()
}

// SelectedTask returns the attached task, if any.
func (o *Orchestrator) SelectedTask() *model.TaskRef {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil {
		return nil
	}
	ref := *o.selected
	return &ref
}

// CompleteTask marks a task done and asks for the rate-limited reward.
// Completing an already finished task changes nothing.
func (o *Orchestrator) CompleteTask(id string) (TaskEvent, error) {
	o.mu.Lock()
	t, changed, err := o.deps.Tasks.Complete(id)
	if err != nil || !changed {
		o.mu.Unlock()
		return TaskEvent{Task: t}, err
	}
	if o.selected != nil && o.selected.ID == t.ID {
		o.selected = nil
	}
	reward := o.deps.Progress.AwardTaskExperience()
	ev := TaskEvent{Task: t, Reward: reward}
	events := []Event{ev}
	if reward.Granted {
		events = append(events, XPEvent{Source: XPTask, Award: reward.Award})
	}
	events = append(events, o.evaluateLocked(-1)...)
	o.mu.Unlock()
	o.flush(events)
	return ev, nil
}

// Rollover revalidates day-scoped state so a new calendar day is reflected
// without a new session.
func (o *Orchestrator) Rollover() {
	o.mu.Lock()
	events := []Event{
		StreakEvent{Streak: o.deps.Streak.Current()},
		GoalEvent{Progress: o.deps.Goal.Status()},
	}
	o.mu.Unlock()
	o.flush(events)
}

// Wipe resets progression, streak, daily goal and achievements. History and
// tasks are kept.
func (o *Orchestrator) Wipe() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deps.Progress.Wipe()
	o.deps.Streak.Wipe()
	o.deps.Goal.Wipe()
	o.deps.Achievements.Wipe()
	slog.Info("progress wiped")
}

// FocusDuration returns the effective focus length in seconds.
func (o *Orchestrator) FocusDuration() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.durationLocked(model.ModeFocus)
}

// engineCompleted runs the pipeline for a countdown the engine finished,
// unless a command already settled it or replaced the countdown.
func (o *Orchestrator) engineCompleted(s model.Snapshot, token uint64) {
	o.mu.Lock()
	if !o.deps.Engine.TakeCompletion(token) {
		o.mu.Unlock()
		slog.Debug("completion already settled", "mode", s.Mode)
		return
	}
	events := o.completeLocked(s.Mode, s.TotalSeconds, false)
	o.mu.Unlock()
	o.flush(events)
}

// settleLocked completes a countdown that reached zero but whose completion
// callback has not run yet. It returns nil when nothing was pending.
func (o *Orchestrator) settleLocked() []Event {
	token := o.deps.Engine.PendingCompletion()
	if token == 0 || !o.deps.Engine.TakeCompletion(token) {
		return nil
	}
	snap := o.deps.Engine.Snapshot()
	return o.completeLocked(snap.Mode, snap.TotalSeconds, false)
}

// completeLocked runs ledger, experience, streak, goal and achievements in
// that order, then advances the mode. Later steps read what earlier ones
// wrote.
func (o *Orchestrator) completeLocked(mode model.Mode, seconds int, restored bool) []Event {
	var events []Event
	var rec *model.SessionRecord
	if mode == model.ModeFocus {
		minutes := seconds / 60
		rec = o.deps.Ledger.Record(minutes, o.selected)
		if rec != nil {
			if award, ok := o.deps.Progress.AwardFocusExperience(minutes); ok {
				events = append(events, XPEvent{Source: XPFocus, Award: award})
			}
			if value, changed := o.deps.Streak.RecordSession(); changed {
				events = append(events, StreakEvent{Streak: value})
			}
			p := o.deps.Goal.RecordSession()
			events = append(events, GoalEvent{Progress: p})
			if p.Bonus > 0 {
				events = append(events, XPEvent{Source: XPGoal, Award: o.deps.Progress.AwardExperience(p.Bonus)})
			}
			events = append(events, o.evaluateLocked(o.deps.Clock.Now().Hour())...)
		}
	}
	next := o.nextModeLocked(mode, rec != nil)
	o.configureLocked(next)
	slog.Debug("session completed", "mode", mode, "next", next, "restored", restored)
	return append(events, CompleteEvent{Mode: mode, Next: next, Restored: restored, Session: rec})
}

func (o *Orchestrator) evaluateLocked(hour int) []Event {
	facts := o.factsLocked()
	facts.Hour = hour
	var events []Event
	for _, def := range o.deps.Achievements.Evaluate(facts) {
		events = append(events, AchievementEvent{Achievement: def})
	}
	return events
}

func (o *Orchestrator) factsLocked() achievement.Facts {
	totals := o.deps.Ledger.Totals()
	state := o.deps.Progress.State()
	return achievement.Facts{
		TotalSessions:    totals.Sessions,
		TotalMinutes:     totals.TotalMinutes,
		Streak:           o.deps.Streak.Current(),
		Level:            progress.LevelFor(state.TotalExperience),
		GoalReachedToday: o.deps.Goal.Status().Reached,
		TasksCompleted:   state.TasksCompletedTotal,
		Hour:             -1,
	}
}

// nextModeLocked picks the mode after mode finished. A long break follows
// only a recorded focus session that makes today's count a multiple of
// LongBreakEvery.
func (o *Orchestrator) nextModeLocked(mode model.Mode, recorded bool) model.Mode {
	if mode != model.ModeFocus {
		return model.ModeFocus
	}
	if recorded {
		if n := o.deps.Ledger.CountToday(); n > 0 && n%o.deps.Durations.LongBreakEvery == 0 {
			return model.ModeLongBreak
		}
	}
	return model.ModeShortBreak
}

func (o *Orchestrator) configureLocked(m model.Mode) {
	o.deps.Engine.Configure(m, o.durationLocked(m))
}

func (o *Orchestrator) durationLocked(m model.Mode) int {
	if m == model.ModeFocus {
		if minutes := o.deps.Prefs.Get().FocusMinutes; minutes > 0 {
			return minutes * 60
		}
	}
	return int(o.deps.Durations.For(m).Seconds())
}

func (o *Orchestrator) flush(events []Event) {
	for _, ev := range events {
		o.emit(ev)
	}
}
