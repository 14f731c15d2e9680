package main

import (
	"log/slog"
	"testing"
)

func TestApplyIntConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("focus", "50"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fromFile := 30
	applyIntConfig(cmd, "focus", &timerFocus, &fromFile)
	if timerFocus != 50 {
		t.Fatalf("expected flag value to win, got %d", timerFocus)
	}
	applyIntConfig(cmd, "short-break", &timerShortBreak, &fromFile)
	if timerShortBreak != 30 {
		t.Fatalf("expected config value for unset flag, got %d", timerShortBreak)
	}
	applyIntConfig(cmd, "long-break", &timerLongBreak, nil)
	if timerLongBreak != defaultLongBreak {
		t.Fatalf("expected default for missing config, got %d", timerLongBreak)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":       slog.LevelInfo,
		"DEBUG":  slog.LevelDebug,
		" warn ": slog.LevelWarn,
		"error":  slog.LevelError,
		"bogus":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("unexpected short id %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("unexpected short id %q", got)
	}
}
