// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/tuidoro/internal/model"
)

// NoTaskLabel names sessions recorded without a task.
const NoTaskLabel = "(no task)"

// TaskTotal is the focus time attributed to one task.
type TaskTotal struct {
	Name     string
	Sessions int
	Minutes  int
}

// TopTasks groups history by task and returns the n with the most minutes.
func TopTasks(entries []model.SessionRecord, n int) []TaskTotal {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	byID := map[string]*TaskTotal{}
	var order []string
	for _, e := range entries {
		id, name := e.TaskID, e.TaskName
		if id == "" {
			name = NoTaskLabel
		}
		t, ok := byID[id]
		if !ok {
			t = &TaskTotal{Name: name}
			byID[id] = t
			order = append(order, id)
		}
		// Later records carry the most recent name.
		if name != "" {
			t.Name = name
		}
		t.Sessions++
		t.Minutes += e.DurationMinutes
	}
	items := make([]TaskTotal, 0, len(order))
	for _, id := range order {
		items = append(items, *byID[id])
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Minutes == items[j].Minutes {
			return items[i].Name < items[j].Name
		}
		return items[i].Minutes > items[j].Minutes
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
