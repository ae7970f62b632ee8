package tui

import (
	"strings"
	"testing"
)

func TestRenderSummary(t *testing.T) {
	out := RenderSummary([]SummaryRow{
		{Label: "Images", Value: "12"},
		{Label: "Failed", Value: "3"},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != lines[3] || !strings.HasPrefix(lines[0], "---") {
		t.Fatalf("rules do not match: %q vs %q", lines[0], lines[3])
	}
	if !strings.Contains(lines[1], "Images") || !strings.Contains(lines[1], "12") {
		t.Fatalf("row = %q", lines[1])
	}
	// Values pad to the widest column.
	if !strings.Contains(lines[2], "3 ") {
		t.Fatalf("row = %q, want value padded to column width", lines[2])
	}
}
