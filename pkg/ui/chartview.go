package ui

import (
	"fmt"
	"strings"

	"github.com/mvdleeuw/geoscope/pkg/analysis"
	"github.com/mvdleeuw/geoscope/pkg/export"
	"github.com/mvdleeuw/geoscope/pkg/model"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

const chartLabelWidth = 16

// ChartAdapter renders the categorical view: one magnitude-encoded bar per
// region in the filtered set, with a distribution summary footer. The
// selected bar can be promoted to a focus request.
type ChartAdapter struct {
	theme  Theme
	width  int
	height int
	active bool

	groups   []analysis.RegionCount
	stats    analysis.GroupStats
	total    int
	selected int
	offset   int // first visible row when the group list overflows
}

// NewChartAdapter returns an inactive chart adapter.
func NewChartAdapter(theme Theme) *ChartAdapter {
	return &ChartAdapter{theme: theme}
}

func (c *ChartAdapter) Activate() error {
	c.active = true
	return nil
}

func (c *ChartAdapter) Cleanup() {
	c.active = false
}

// IsActive reports whether the adapter is between Activate and Cleanup.
func (c *ChartAdapter) IsActive() bool { return c.active }

func (c *ChartAdapter) Render(snap store.Snapshot) {
	c.groups = analysis.GroupByRegion(snap.Filtered)
	c.stats = analysis.Summarize(c.groups)
	c.total = len(snap.Filtered)

	if c.selected >= len(c.groups) {
		c.selected = len(c.groups) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
	c.clampOffset()
}

// SelectNext moves the bar selection down, wrapping.
func (c *ChartAdapter) SelectNext() {
	if len(c.groups) > 0 {
		c.selected = (c.selected + 1) % len(c.groups)
		c.clampOffset()
	}
}

// SelectPrev moves the bar selection up, wrapping.
func (c *ChartAdapter) SelectPrev() {
	if n := len(c.groups); n > 0 {
		c.selected = (c.selected + n - 1) % n
		c.clampOffset()
	}
}

// SelectedRegion returns the selected bar's region. The unknown-region
// bucket is not focusable: its records carry no region value an exact-match
// criterion could select, so it reports false.
func (c *ChartAdapter) SelectedRegion() (string, bool) {
	if c.selected < 0 || c.selected >= len(c.groups) {
		return "", false
	}
	region := c.groups[c.selected].Region
	if region == model.UnknownPlace {
		return "", false
	}
	return region, true
}

func (c *ChartAdapter) SetSize(width, height int) {
	c.width, c.height = width, height
	c.clampOffset()
}

func (c *ChartAdapter) ThemeChanged(theme Theme) {
	c.theme = theme
}

// ExportImage saves the current grouping as an image snapshot.
func (c *ChartAdapter) ExportImage(opts export.SnapshotOptions) error {
	opts.DarkMode = c.theme.Dark
	return export.SaveChartSnapshot(opts, c.groups)
}

// visibleRows is the number of bar rows that fit above the footer.
func (c *ChartAdapter) visibleRows() int {
	rows := c.height - 2 // header + footer
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (c *ChartAdapter) clampOffset() {
	rows := c.visibleRows()
	if c.selected < c.offset {
		c.offset = c.selected
	}
	if c.selected >= c.offset+rows {
		c.offset = c.selected - rows + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c *ChartAdapter) View() string {
	if len(c.groups) == 0 {
		return emptyState(c.theme, c.width, c.height,
			"No records match the current filter",
			"esc clears the filter")
	}

	maxCount := 0
	for _, g := range c.groups {
		if g.Count > maxCount {
			maxCount = g.Count
		}
	}

	barWidth := c.width - chartLabelWidth - 8
	if barWidth < 4 {
		barWidth = 4
	}

	var b strings.Builder
	b.WriteString(c.theme.Muted.Render(
		fmt.Sprintf("%d records across %d regions", c.total, len(c.groups))))
	b.WriteByte('\n')

	rows := c.visibleRows()
	end := c.offset + rows
	if end > len(c.groups) {
		end = len(c.groups)
	}
	for i := c.offset; i < end; i++ {
		g := c.groups[i]
		filled := barWidth * g.Count / maxCount
		if filled < 1 && g.Count > 0 {
			filled = 1
		}

		label := padRight(g.Region, chartLabelWidth)
		bar := c.theme.BarFill.Render(strings.Repeat("█", filled)) +
			c.theme.BarTrack.Render(strings.Repeat("░", barWidth-filled))
		count := fmt.Sprintf(" %d", g.Count)

		if i == c.selected {
			b.WriteString(c.theme.Selected.Render(label))
		} else {
			b.WriteString(c.theme.Text.Render(label))
		}
		b.WriteString(bar)
		b.WriteString(c.theme.Muted.Render(count))
		b.WriteByte('\n')
	}

	b.WriteString(c.theme.Muted.Render(truncate(
		fmt.Sprintf("mean %.1f per region · σ %.1f · enter focuses the selected region on the map",
			c.stats.Mean, c.stats.StdDev), c.width)))

	return b.String()
}
