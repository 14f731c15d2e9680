// Package task keeps the task queue sessions can be attributed to.
package task

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

// Errors returned for rejected input.
var (
	ErrEmptyName = errors.New("task name is empty")
	ErrNotFound  = errors.New("task not found")
)

// MaxNameLength bounds task names in runes.
const MaxNameLength = 200

// List owns the tasks record.
type List struct {
	mu      sync.Mutex
	clock   clock.Clock
	records *store.Records
	tasks   []model.Task
}

// New loads the tasks record.
func New(clk clock.Clock, records *store.Records) *List {
	l := &List{clock: clk, records: records}
	var tasks []model.Task
	if records.Load(store.KeyTasks, &tasks) {
		l.tasks = tasks
	}
	return l
}

// Add appends a task. Names are trimmed and truncated to MaxNameLength.
func (l *List) Add(name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, ErrEmptyName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	t := model.Task{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: l.clock.Now(),
	}
	l.tasks = append(l.tasks, t)
	l.save()
	return t, nil
}

// All returns every task in insertion order.
func (l *List) All() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Task(nil), l.tasks...)
}

// Pending returns tasks not yet done.
func (l *List) Pending() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Task
	for _, t := range l.tasks {
		if !t.Done {
			out = append(out, t)
		}
	}
	return out
}

// Get finds a task by id or unique id prefix.
func (l *List) Get(id string) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, err := l.indexLocked(id)
	if err != nil {
		return model.Task{}, err
	}
	return l.tasks[idx], nil
}

// Complete marks a task done. The bool is false if it already was.
func (l *List) Complete(id string) (model.Task, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, err := l.indexLocked(id)
	if err != nil {
		return model.Task{}, false, err
	}
	if l.tasks[idx].Done {
		return l.tasks[idx], false, nil
	}
	now := l.clock.Now()
	l.tasks[idx].Done = true
	l.tasks[idx].CompletedAt = &now
	l.save()
	return l.tasks[idx], true, nil
}

// Remove deletes a task. Historical counters are unaffected.
func (l *List) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, err := l.indexLocked(id)
	if err != nil {
		return err
	}
	l.tasks = append(l.tasks[:idx], l.tasks[idx+1:]...)
	l.save()
	return nil
}

func (l *List) indexLocked(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, ErrNotFound
	}
	found := -1
	for i, t := range l.tasks {
		if t.ID == id {
			return i, nil
		}
		if strings.HasPrefix(t.ID, id) {
			if found >= 0 {
				return -1, ErrNotFound
			}
			found = i
		}
	}
	if found < 0 {
		return -1, ErrNotFound
	}
	return found, nil
}

func (l *List) save() {
	tasks := l.tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	l.records.Save(store.KeyTasks, tasks)
}
