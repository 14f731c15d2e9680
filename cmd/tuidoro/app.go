package main

import (
	"fmt"

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

// app holds the components shared by every command.
type app struct {
	db      *store.SQLite
	records *store.Records
	clock   clock.Clock
	ledger  *ledger.Ledger
	tasks   *task.List
	orch    *session.Orchestrator
}

// openApp opens the database and wires the orchestrator. Callers must call
// orch.Restore before using it.
func openApp(durations model.Durations, sched timer.Scheduler, emit func(session.Event)) (*app, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	records := store.NewRecords(st)
	clk := clock.Real{}
	a := &app{
		db:      st,
		records: records,
		clock:   clk,
		ledger:  ledger.New(clk, records),
		tasks:   task.New(clk, records),
	}
	a.orch = session.New(session.Deps{
		Clock:        clk,
		Engine:       timer.New(clk, records, sched),
		Ledger:       a.ledger,
		Progress:     progress.New(clk, records),
		Streak:       streak.New(clk, records),
		Goal:         goal.New(clk, records),
		Achievements: achievement.New(clk, records),
		Tasks:        a.tasks,
		Prefs:        prefs.New(records),
		Durations:    durations,
	}, emit)
	return a, nil
}

// openRestored opens the app for a one-shot command: the timer is restored
// but never ticks.
func openRestored(durations model.Durations) (*app, timer.Restoration, error) {
	a, err := openApp(durations, timer.IdleScheduler{}, nil)
	if err != nil {
		return nil, timer.Restoration{}, err
	}
	return a, a.orch.Restore(), nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}
