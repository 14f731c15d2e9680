package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Task", "Sessions", "Focus"}
	rows := [][]string{
		{"write", "12", "5h 00m"},
		{"日本語", "3", "45m"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Task   Sessions  Focus" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "write        12 5h 00m" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "日本語        3    45m" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
