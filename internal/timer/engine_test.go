package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/tuidoro/internal/clock"
	"github.com/verte-zerg/tuidoro/internal/model"
	"github.com/verte-zerg/tuidoro/internal/store"
)

type manualScheduler struct {
	fn        func()
	active    bool
	scheduled int
	cancelled int
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	s.fn = fn
	s.active = true
	s.scheduled++
	return func() {
		s.active = false
		s.cancelled++
	}
}

// fire runs the last scheduled callback even if it was cancelled, like a
// tick that was already in flight.
func (s *manualScheduler) fire() {
	if s.fn != nil {
		s.fn()
	}
}

var t0 = time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *clock.Fake, *manualScheduler, *store.Memory) {
	t.Helper()
	clk := clock.NewFake(t0)
	sched := &manualScheduler{}
	mem := store.NewMemory()
	return New(clk, store.NewRecords(mem), sched), clk, sched, mem
}

func loadRecord(t *testing.T, mem *store.Memory) (model.PersistedTimer, bool) {
	t.Helper()
	var rec model.PersistedTimer
	ok := store.NewRecords(mem).Load(store.KeyTimer, &rec)
	return rec, ok
}

func TestRemainingIsDerivedFromAnchor(t *testing.T) {
	e, clk, _, _ := newTestEngine(t)
	e.Configure(model.ModeFocus, 1500)
	e.Start()

	for _, delta := range []time.Duration{0, 999 * time.Millisecond, 61500 * time.Millisecond, 1499 * time.Second} {
		clk.Set(t0.Add(delta))
		got := e.Snapshot().RemainingSeconds
		want := 1500 - int(delta/time.Second)
		if got != want {
			t.Fatalf("delta %v: expected %d remaining, got %d", delta, want, got)
		}
	}
}

func TestStartAndPauseAreIdempotent(t *testing.T) {
	e, clk, sched, _ := newTestEngine(t)
	e.Configure(model.ModeFocus, 600)
	e.Start()
	clk.Advance(10 * time.Second)
	e.Start()
	if sched.scheduled != 1 {
		t.Fatalf("expected one scheduled ticker, got %d", sched.scheduled)
	}
	if got := e.Snapshot().RemainingSeconds; got != 590 {
		t.Fatalf("second start must not re-anchor, got %d", got)
	}

	e.Pause()
	clk.Advance(30 * time.Second)
	e.Pause()
	snap := e.Snapshot()
	if snap.Running || snap.RemainingSeconds != 590 {
		t.Fatalf("unexpected snapshot after double pause: %+v", snap)
	}
	if sched.cancelled != 1 {
		t.Fatalf("expected one cancel, got %d", sched.cancelled)
	}
}

func TestTickPersistsThenNotifies(t *testing.T) {
	e, clk, sched, mem := newTestEngine(t)
	var seen []model.Snapshot
	e.OnTick(func(s model.Snapshot) {
		rec, ok := loadRecord(t, mem)
		if !ok || rec.RemainingSeconds != s.RemainingSeconds {
			t.Fatalf("expected record written before observer, got %+v ok=%v", rec, ok)
		}
		seen = append(seen, s)
	})
	e.Configure(model.ModeFocus, 120)
	e.Start()

	// Ticks delivered late still report wall-clock time.
	clk.Advance(45 * time.Second)
	sched.fire()
	if len(seen) != 1 || seen[0].RemainingSeconds != 75 {
		t.Fatalf("unexpected tick snapshots: %+v", seen)
	}
	rec, _ := loadRecord(t, mem)
	if !rec.IsRunning || rec.TargetEndTime == nil || !rec.TargetEndTime.Equal(t0.Add(120*time.Second)) {
		t.Fatalf("unexpected persisted record: %+v", rec)
	}
}

func TestTickCompletion(t *testing.T) {
	e, clk, sched, mem := newTestEngine(t)
	var completed []model.Mode
	var last model.Snapshot
	e.OnTick(func(s model.Snapshot) { last = s })
	e.OnComplete(func(s model.Snapshot, _ uint64) { completed = append(completed, s.Mode) })
	e.Configure(model.ModeShortBreak, 300)
	e.Start()

	clk.Advance(10 * time.Minute)
	sched.fire()
	if len(completed) != 1 || completed[0] != model.ModeShortBreak {
		t.Fatalf("expected one short break completion, got %v", completed)
	}
	if last.RemainingSeconds != 0 || last.Running {
		t.Fatalf("unexpected final snapshot: %+v", last)
	}
	if sched.active {
		t.Fatalf("expected ticker to be cancelled")
	}
	if _, ok := loadRecord(t, mem); ok {
		t.Fatalf("expected persisted record to be cleared")
	}

	sched.fire()
	if len(completed) != 1 {
		t.Fatalf("stale tick must not complete twice")
	}
}

func TestInFlightTickAfterPauseIsNoop(t *testing.T) {
	e, clk, sched, _ := newTestEngine(t)
	ticks := 0
	e.OnTick(func(model.Snapshot) { ticks++ })
	e.Configure(model.ModeFocus, 60)
	e.Start()
	e.Pause()
	clk.Advance(2 * time.Minute)
	sched.fire()
	if ticks != 0 {
		t.Fatalf("expected no tick after pause, got %d", ticks)
	}
	if got := e.Snapshot().RemainingSeconds; got != 60 {
		t.Fatalf("expected remaining to stay 60, got %d", got)
	}
}

func TestResetClearsRecord(t *testing.T) {
	e, clk, _, mem := newTestEngine(t)
	e.Configure(model.ModeFocus, 60)
	e.Start()
	clk.Advance(20 * time.Second)
	e.Reset()
	if _, ok := loadRecord(t, mem); ok {
		t.Fatalf("expected reset to clear the record")
	}
	snap := e.Snapshot()
	if snap.Running || snap.RemainingSeconds != 60 {
		t.Fatalf("unexpected snapshot after reset: %+v", snap)
	}
}

func TestConfigureClampsNonPositive(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.Configure(model.ModeFocus, -5)
	if snap := e.Snapshot(); snap.TotalSeconds != 1 || snap.RemainingSeconds != 1 {
		t.Fatalf("expected clamp to 1s, got %+v", snap)
	}
}

func TestRestoreRunningAndCompleted(t *testing.T) {
	e, clk, _, mem := newTestEngine(t)
	e.Configure(model.ModeFocus, 1500)
	e.Start()
	target := t0.Add(1500 * time.Second)

	for _, at := range []time.Duration{1 * time.Millisecond, 700500 * time.Millisecond, 1499999 * time.Millisecond} {
		clk.Set(t0.Add(at))
		fresh := New(clk, store.NewRecords(mem), &manualScheduler{})
		r := fresh.Restore()
		want := ceilSeconds(target.Sub(t0.Add(at)))
		if r.Kind != RestoreRunning || r.RemainingSeconds != want {
			t.Fatalf("at %v: expected running with %d, got %+v", at, want, r)
		}
	}

	clk.Set(target.Add(500 * time.Millisecond))
	fresh := New(clk, store.NewRecords(mem), &manualScheduler{})
	r := fresh.Restore()
	if !r.Completed() || r.Mode != model.ModeFocus || r.TotalSeconds != 1500 || r.RemainingSeconds != 0 {
		t.Fatalf("expected completion report, got %+v", r)
	}
	if _, ok := loadRecord(t, mem); ok {
		t.Fatalf("expected record cleared after completed restore")
	}
	if again := fresh.Restore(); again.Kind != RestoreNone {
		t.Fatalf("expected nothing left to restore, got %+v", again)
	}
}

func TestApplyRearmsRunningRestore(t *testing.T) {
	e, clk, sched, _ := newTestEngine(t)
	e.Apply(Restoration{Kind: RestoreRunning, Mode: model.ModeLongBreak, TotalSeconds: 900, RemainingSeconds: 400})
	if sched.scheduled != 1 {
		t.Fatalf("expected running restore to re-arm ticker")
	}
	clk.Advance(100 * time.Second)
	snap := e.Snapshot()
	if !snap.Running || snap.Mode != model.ModeLongBreak || snap.RemainingSeconds != 300 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRestorePausedAndMalformed(t *testing.T) {
	e, _, _, mem := newTestEngine(t)
	e.Configure(model.ModeFocus, 600)
	e.Start()
	e.Pause()
	if r := e.Restore(); r.Kind != RestorePaused || r.RemainingSeconds != 600 {
		t.Fatalf("expected paused restore, got %+v", r)
	}

	ctx := context.Background()
	for _, raw := range []string{`{"mode":"nap","totalSeconds":60,"remainingSeconds":10}`, `[1,2]`, `{"mode":"focus","totalSeconds":60,"remainingSeconds":0}`} {
		if err := mem.Put(ctx, store.KeyTimer, []byte(raw)); err != nil {
			t.Fatalf("put: %v", err)
		}
		if r := e.Restore(); r.Kind != RestoreNone {
			t.Fatalf("expected %s to restore nothing, got %+v", raw, r)
		}
	}
}

type brokenKV struct {
	*store.Memory
}

func (brokenKV) Put(context.Context, string, []byte) error {
	return errors.New("storage unavailable")
}

func TestPersistenceFailureIsNotFatal(t *testing.T) {
	clk := clock.NewFake(t0)
	sched := &manualScheduler{}
	e := New(clk, store.NewRecords(brokenKV{Memory: store.NewMemory()}), sched)
	completed := false
	e.OnComplete(func(model.Snapshot, uint64) { completed = true })
	e.Configure(model.ModeFocus, 5)
	e.Start()
	clk.Advance(2 * time.Second)
	sched.fire()
	if got := e.Snapshot().RemainingSeconds; got != 3 {
		t.Fatalf("expected in-memory countdown to continue, got %d", got)
	}
	clk.Advance(3 * time.Second)
	sched.fire()
	if !completed {
		t.Fatalf("expected completion despite storage failures")
	}
	if r := e.Restore(); r.Kind != RestoreNone {
		t.Fatalf("expected nothing restorable, got %+v", r)
	}
}

func TestCompletionIsTakenOnce(t *testing.T) {
	e, clk, sched, _ := newTestEngine(t)
	var token uint64
	e.OnComplete(func(_ model.Snapshot, tok uint64) { token = tok })
	e.Configure(model.ModeFocus, 60)
	e.Start()
	clk.Advance(time.Minute)
	sched.fire()
	if token == 0 || e.PendingCompletion() != token {
		t.Fatalf("expected pending completion, got token=%d pending=%d", token, e.PendingCompletion())
	}
	if !e.TakeCompletion(token) {
		t.Fatalf("expected first take to succeed")
	}
	if e.TakeCompletion(token) || e.PendingCompletion() != 0 {
		t.Fatalf("completion must be taken once")
	}

	first := token
	e.Configure(model.ModeFocus, 60)
	e.Start()
	clk.Advance(time.Minute)
	sched.fire()
	if token == first || e.PendingCompletion() != token {
		t.Fatalf("expected a fresh pending token, got %d (first %d)", token, first)
	}
	e.Configure(model.ModeShortBreak, 300)
	if e.TakeCompletion(token) {
		t.Fatalf("reconfigured engine must drop the pending completion")
	}
}

func TestReapplyingRunningRestoreKeepsDeadline(t *testing.T) {
	e, clk, _, mem := newTestEngine(t)
	e.Configure(model.ModeFocus, 1500)
	e.Start()
	target := t0.Add(1500 * time.Second)

	for i := 0; i < 400; i++ {
		clk.Advance(1500 * time.Millisecond)
		fresh := New(clk, store.NewRecords(mem), &manualScheduler{})
		fresh.Apply(fresh.Restore())
		if got := fresh.Snapshot().Deadline; !got.Equal(target) {
			t.Fatalf("restore %d moved deadline to %v", i, got)
		}
	}
	rec, _ := loadRecord(t, mem)
	if rec.TargetEndTime == nil || !rec.TargetEndTime.Equal(target) {
		t.Fatalf("unexpected persisted deadline: %+v", rec)
	}
	clk.Set(target.Add(time.Second))
	if r := New(clk, store.NewRecords(mem), &manualScheduler{}).Restore(); !r.Completed() {
		t.Fatalf("expected completion after the original deadline, got %+v", r)
	}
}
