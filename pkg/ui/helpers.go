package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width terminal cells, appending an ellipsis
// when anything was cut. Width is measured with runewidth so wide glyphs
// count double.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// padRight pads s with spaces to exactly width cells, truncating first when
// it is too long.
func padRight(s string, width int) string {
	s = truncate(s, width)
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// fitLine joins already-styled segments with two spaces, dropping trailing
// segments that would overflow width. Widths are measured with lipgloss so
// escape sequences never count as cells; styled text is never cut mid-run.
// Truncation of variable-length text belongs on the plain string, before
// styling.
func fitLine(parts []string, width int) string {
	var b strings.Builder
	used := 0
	for i, p := range parts {
		w := lipgloss.Width(p)
		sep := 0
		if i > 0 {
			sep = 2
		}
		if width > 0 && used+sep+w > width {
			break
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(p)
		used += sep + w
	}
	return b.String()
}

// emptyState renders the shared "nothing to show" panel. Every adapter must
// present this rather than a blank body when the filtered set is empty.
func emptyState(t Theme, width, height int, line, hint string) string {
	body := t.Empty.Render(line)
	if hint != "" {
		body += "\n" + t.Muted.Render(hint)
	}
	if width <= 0 || height <= 0 {
		return body
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
