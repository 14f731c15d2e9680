package clock

import (
	"testing"
	"time"
)

func TestDayKeyOffsetAcrossMonth(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.Local)
	if got := DayKeyOffset(now, -1); got != "2024-02-29" {
		t.Fatalf("expected 2024-02-29, got %s", got)
	}
	if got := DayKeyOffset(now, 0); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
}

func TestDaysBetween(t *testing.T) {
	days, ok := DaysBetween("2024-02-28", "2024-03-01")
	if !ok || days != 2 {
		t.Fatalf("expected 2 days, got %d ok=%v", days, ok)
	}
	if _, ok := DaysBetween("garbage", "2024-03-01"); ok {
		t.Fatalf("expected malformed key to be rejected")
	}
}

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)
	f.Advance(90 * time.Second)
	if got := f.Now().Sub(start); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
