// Package backup exports and imports every durable record as one document.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuidoro/internal/achievement"
	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/prefs"
	"github.com/verte-zerg/tuidoro/internal/store"
)

// ErrInvalidDocument wraps every validation failure on import.
var ErrInvalidDocument = errors.New("invalid backup document")

// Version is written into exported documents.
const Version = 1

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// DetectFormat guesses the format from the file extension, falling back to
// the first non-space byte.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Document is the exchange format. Pointer and slice fields left nil are
// omitted on export and left untouched on import, except History which is
// always required.
type Document struct {
	Version      int                     `json:"version" yaml:"version"`
	ExportedAt   time.Time               `json:"exportedAt" yaml:"exportedAt"`
	Timer        *model.PersistedTimer   `json:"timer,omitempty" yaml:"timer,omitempty"`
	History      []model.SessionRecord   `json:"history" yaml:"history"`
	Progression  *model.ProgressionState `json:"progression,omitempty" yaml:"progression,omitempty"`
	Streak       *model.StreakState      `json:"streak,omitempty" yaml:"streak,omitempty"`
	DailyGoal    *model.DailyGoalState   `json:"dailyGoal,omitempty" yaml:"dailyGoal,omitempty"`
	Achievements *achievement.Record     `json:"achievements,omitempty" yaml:"achievements,omitempty"`
	Tasks        []model.Task            `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Preferences  *prefs.Preferences      `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// Export reads every known record. Absent or malformed records are omitted;
// an absent history exports as an empty list.
func Export(records *store.Records, clk clock.Clock) Document {
	doc := Document{Version: Version, ExportedAt: clk.Now(), History: []model.SessionRecord{}}
	records.Load(store.KeyHistory, &doc.History)
	if doc.History == nil {
		doc.History = []model.SessionRecord{}
	}
	var timer model.PersistedTimer
	if records.Load(store.KeyTimer, &timer) {
		doc.Timer = &timer
	}
	var prog model.ProgressionState
	if records.Load(store.KeyProgression, &prog) {
		doc.Progression = &prog
	}
	var st model.StreakState
	if records.Load(store.KeyStreak, &st) {
		doc.Streak = &st
	}
	var dg model.DailyGoalState
	if records.Load(store.KeyDailyGoal, &dg) {
		doc.DailyGoal = &dg
	}
	var ach achievement.Record
	if records.Load(store.KeyAchievements, &ach) {
		doc.Achievements = &ach
	}
	var tasks []model.Task
	if records.Load(store.KeyTasks, &tasks) && tasks != nil {
		doc.Tasks = tasks
	}
	var p prefs.Preferences
	if records.Load(store.KeyPreferences, &p) {
		doc.Preferences = &p
	}
	return doc
}

// Encode writes doc to w in format f.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Decode parses and validates a document. Every failure wraps
// ErrInvalidDocument.
func Decode(data []byte, f Format) (Document, error) {
	var shape map[string]any
	var doc Document
	var err error
	switch f {
	case FormatYAML:
		if err = yaml.Unmarshal(data, &shape); err == nil {
			err = yaml.Unmarshal(data, &doc)
		}
	default:
		if err = json.Unmarshal(data, &shape); err == nil {
			err = json.Unmarshal(data, &doc)
		}
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if shape == nil {
		return Document{}, fmt.Errorf("%w: document is not an object", ErrInvalidDocument)
	}
	if _, ok := shape["history"].([]any); !ok {
		return Document{}, fmt.Errorf("%w: history must be a list", ErrInvalidDocument)
	}
	if err := doc.validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

func (d Document) validate() error {
	for i, rec := range d.History {
		if _, err := time.Parse(clock.DayLayout, rec.DateKey); err != nil {
			return fmt.Errorf("history[%d]: bad dateKey %q", i, rec.DateKey)
		}
		if rec.DurationMinutes <= 0 {
			return fmt.Errorf("history[%d]: durationMinutes must be positive", i)
		}
		if rec.CompletedAt.IsZero() {
			return fmt.Errorf("history[%d]: completedAt is required", i)
		}
	}
	if t := d.Timer; t != nil {
		if !t.Mode.Valid() {
			return fmt.Errorf("timer: unknown mode %q", t.Mode)
		}
		if t.TotalSeconds < 0 || t.RemainingSeconds < 0 || t.RemainingSeconds > t.TotalSeconds {
			return errors.New("timer: seconds out of range")
		}
	}
	if p := d.Progression; p != nil && (p.TotalExperience < 0 || p.TasksCompletedTotal < 0) {
		return errors.New("progression: negative counters")
	}
	if s := d.Streak; s != nil {
		if s.CurrentStreak < 0 {
			return errors.New("streak: negative value")
		}
		if s.LastSessionDate != nil {
			if _, err := time.Parse(clock.DayLayout, *s.LastSessionDate); err != nil {
				return fmt.Errorf("streak: bad lastSessionDate %q", *s.LastSessionDate)
			}
		}
	}
	if g := d.DailyGoal; g != nil && g.SessionsToday < 0 {
		return errors.New("dailyGoal: negative sessionsToday")
	}
	for i, t := range d.Tasks {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("tasks[%d]: id and name are required", i)
		}
	}
	if p := d.Preferences; p != nil && p.FocusMinutes != 0 && prefs.ClampFocusMinutes(p.FocusMinutes) != p.FocusMinutes {
		return fmt.Errorf("preferences: focusMinutes %d out of range", p.FocusMinutes)
	}
	return nil
}

// Entries returns the raw records an import writes, keyed by store key.
func (d Document) Entries() (map[string][]byte, error) {
	values := map[string]any{store.KeyHistory: d.History}
	if d.Timer != nil {
		values[store.KeyTimer] = d.Timer
	}
	if d.Progression != nil {
		p := *d.Progression
		if p.RewardWindow == nil {
			p.RewardWindow = []int64{}
		}
		values[store.KeyProgression] = p
	}
	if d.Streak != nil {
		values[store.KeyStreak] = d.Streak
	}
	if d.DailyGoal != nil {
		values[store.KeyDailyGoal] = d.DailyGoal
	}
	if d.Achievements != nil {
		values[store.KeyAchievements] = d.Achievements
	}
	if d.Tasks != nil {
		values[store.KeyTasks] = d.Tasks
	}
	if d.Preferences != nil {
		values[store.KeyPreferences] = d.Preferences
	}
	entries := make(map[string][]byte, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = raw
	}
	return entries, nil
}

// Import validates data and writes every present record in one batch.
// Records missing from the document are left untouched. It returns the
// store keys written.
func Import(ctx context.Context, dst store.Replacer, data []byte, f Format) ([]string, error) {
	doc, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	entries, err := doc.Entries()
	if err != nil {
		return nil, err
	}
	if err := dst.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("write records: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, key := range store.AllKeys() {
		if _, ok := entries[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
