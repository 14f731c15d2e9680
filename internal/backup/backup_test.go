package backup

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/ledger"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/progress"
	"github.com/verte-zerg/tuidoro/internal/store"
)

var t0 = time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*store.Memory, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(t0)
	mem := store.NewMemory()
	records := store.NewRecords(mem)
	l := ledger.New(clk, records)
	l.Record(25, &model.TaskRef{ID: "t1", Name: "write"})
	l.Record(10, nil)
	acc := progress.New(clk, records)
	acc.AwardFocusExperience(35)
	acc.AwardTaskExperience()
	return mem, clk
}

func TestRoundTripFormats(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		mem, clk := seeded(t)
		var buf bytes.Buffer
		if err := Encode(&buf, Export(store.NewRecords(mem), clk), f); err != nil {
			t.Fatalf("%s: encode: %v", f, err)
		}

		dst := store.NewMemory()
		keys, err := Import(context.Background(), dst, buf.Bytes(), f)
		if err != nil {
			t.Fatalf("%s: import: %v\n%s", f, err, buf.String())
		}
		if len(keys) != 2 || keys[0] != store.KeyHistory || keys[1] != store.KeyProgression {
			t.Fatalf("%s: unexpected keys %v", f, keys)
		}
		got := ledger.New(clk, store.NewRecords(dst)).Entries()
		if len(got) != 2 || got[0].TaskName != "write" || got[1].DurationMinutes != 10 {
			t.Fatalf("%s: unexpected history %+v", f, got)
		}
		state := progress.New(clk, store.NewRecords(dst)).State()
		if state.TotalExperience != 35*progress.XPPerMinute+progress.TaskXP || len(state.RewardWindow) != 1 {
			t.Fatalf("%s: unexpected progression %+v", f, state)
		}
	}
}

func TestImportRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"missing history":  `{"progression": {"totalExperience": 10}}`,
		"history object":   `{"history": {}}`,
		"zero duration":    `{"history": [{"dateKey": "2024-05-06", "durationMinutes": 0, "completedAt": "2024-05-06T09:00:00Z"}]}`,
		"bad date":         `{"history": [{"dateKey": "yesterday", "durationMinutes": 5, "completedAt": "2024-05-06T09:00:00Z"}]}`,
		"wrong type":       `{"history": [], "progression": {"totalExperience": "lots"}}`,
		"negative xp":      `{"history": [], "progression": {"totalExperience": -5}}`,
		"unknown mode":     `{"history": [], "timer": {"mode": "nap", "totalSeconds": 10, "remainingSeconds": 5}}`,
		"not an object":    `[1, 2]`,
		"focus range":      `{"history": [], "preferences": {"focusMinutes": 500}}`,
	}
	for name, doc := range cases {
		mem := store.NewMemory()
		if err := mem.Put(context.Background(), store.KeyStreak, []byte(`{"currentStreak":3}`)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := Import(context.Background(), mem, []byte(doc), FormatJSON); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("%s: expected ErrInvalidDocument, got %v", name, err)
		}
		keys, _ := mem.Keys(context.Background())
		if len(keys) != 1 {
			t.Fatalf("%s: store modified: %v", name, keys)
		}
	}
}

func TestImportLeavesMissingKeysUntouched(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	if err := mem.Put(ctx, store.KeyStreak, []byte(`{"currentStreak":3,"lastSessionDate":"2024-05-06"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	doc := []byte("history: []\nunknown: 42\n")
	keys, err := Import(ctx, mem, doc, FormatYAML)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(keys) != 1 || keys[0] != store.KeyHistory {
		t.Fatalf("unexpected keys %v", keys)
	}
	raw, err := mem.Get(ctx, store.KeyStreak)
	if err != nil || string(raw) != `{"currentStreak":3,"lastSessionDate":"2024-05-06"}` {
		t.Fatalf("streak changed: %s %v", raw, err)
	}
}

func TestDetectFormat(t *testing.T) {
	if f := DetectFormat("backup.yml", nil); f != FormatYAML {
		t.Fatalf("expected yaml, got %s", f)
	}
	if f := DetectFormat("backup", []byte("  {\"history\": []}")); f != FormatJSON {
		t.Fatalf("expected json, got %s", f)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
