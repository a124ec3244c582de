package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello w…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestTruncate_WideRunes(t *testing.T) {
	got := truncate("東京タワー", 6)
	if w := runewidth.StringWidth(got); w > 6 {
		t.Errorf("truncated width %d exceeds limit 6 (%q)", w, got)
	}
}

func TestFitLine_MeasuresCellsNotBytes(t *testing.T) {
	styled := "\x1b[31mAlice\x1b[0m" // 5 visible cells, 14 bytes

	// Both five-cell segments fit in twelve cells with the separator.
	got := fitLine([]string{styled, styled}, 12)
	if w := lipgloss.Width(got); w != 12 {
		t.Errorf("visible width = %d, want 12", w)
	}
	if strings.Count(got, "Alice") != 2 {
		t.Errorf("expected both segments, got %q", got)
	}
}

func TestFitLine_DropsSegmentsWholeNeverMidEscape(t *testing.T) {
	styled := "\x1b[31mAlice\x1b[0m"

	got := fitLine([]string{styled, styled}, 8)
	if got != styled {
		t.Errorf("overflowing segment must be dropped whole, got %q", got)
	}
	if strings.Count(got, "\x1b[31m") != strings.Count(got, "\x1b[0m") {
		t.Error("unbalanced escape sequences: a styled run was cut")
	}
	if fitLine([]string{styled}, 3) != "" {
		t.Error("a first segment that cannot fit is dropped, not cut")
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); runewidth.StringWidth(got) != 4 {
		t.Errorf("padRight overflow: %q", got)
	}
}
