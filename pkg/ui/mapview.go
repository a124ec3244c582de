package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/mvdleeuw/geoscope/pkg/export"
	"github.com/mvdleeuw/geoscope/pkg/geo"
	"github.com/mvdleeuw/geoscope/pkg/model"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// Map glyphs.
const (
	glyphPoint    = '•'
	glyphSelected = '◉'
)

// MapAdapter plots the mappable subset of the filtered records on a
// character grid. The viewport reframes to enclose all plotted points on
// every render; focus requests and zooming narrow it until the next render.
type MapAdapter struct {
	theme  Theme
	width  int
	height int
	active bool

	records  []model.Record // full filtered set
	plotted  []model.Record // mappable subset, filtered order
	viewport geo.Viewport
	hasFrame bool
	selected int
	focus    string // status label while a narrowed frame is showing
}

// NewMapAdapter returns an inactive map adapter.
func NewMapAdapter(theme Theme) *MapAdapter {
	return &MapAdapter{theme: theme}
}

func (m *MapAdapter) Activate() error {
	m.active = true
	return nil
}

func (m *MapAdapter) Cleanup() {
	m.active = false
}

// IsActive reports whether the adapter is between Activate and Cleanup.
func (m *MapAdapter) IsActive() bool { return m.active }

// Render ingests a snapshot: recompute the mappable subset and reframe the
// viewport around all of it. Any narrowed focus frame is dropped; a fresh
// filter result always shows in full.
func (m *MapAdapter) Render(snap store.Snapshot) {
	m.records = snap.Filtered
	m.plotted = m.plotted[:0]
	for _, r := range snap.Filtered {
		if r.Mappable() {
			m.plotted = append(m.plotted, r)
		}
	}

	m.focus = ""
	m.viewport, m.hasFrame = geo.Frame(pointsOf(m.plotted))

	if m.selected >= len(m.plotted) {
		m.selected = len(m.plotted) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// FocusRegion renders the snapshot and narrows the viewport to the plotted
// records of one region. An empty subset leaves the full frame.
func (m *MapAdapter) FocusRegion(region string, snap store.Snapshot) {
	m.Render(snap)
	m.narrow("region "+region, func(r model.Record) bool {
		return r.DisplayRegion() == region
	})
}

// FocusRecord renders the snapshot and narrows the viewport to the first
// record with the given name.
func (m *MapAdapter) FocusRecord(name string, snap store.Snapshot) {
	m.Render(snap)
	m.narrow(name, func(r model.Record) bool {
		return r.Name == name
	})
}

func (m *MapAdapter) narrow(label string, match func(model.Record) bool) {
	var subset []model.Record
	first := -1
	for i, r := range m.plotted {
		if match(r) {
			subset = append(subset, r)
			if first < 0 {
				first = i
			}
		}
	}
	if len(subset) == 0 {
		return
	}
	if vp, ok := geo.Frame(pointsOf(subset)); ok {
		m.viewport = vp
		m.hasFrame = true
		m.focus = label
		m.selected = first
	}
}

// SelectNext moves the selection to the next plotted record, wrapping.
func (m *MapAdapter) SelectNext() {
	if len(m.plotted) > 0 {
		m.selected = (m.selected + 1) % len(m.plotted)
	}
}

// SelectPrev moves the selection to the previous plotted record, wrapping.
func (m *MapAdapter) SelectPrev() {
	if n := len(m.plotted); n > 0 {
		m.selected = (m.selected + n - 1) % n
	}
}

// Selected returns the currently selected plotted record.
func (m *MapAdapter) Selected() (model.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.plotted) {
		return model.Record{}, false
	}
	return m.plotted[m.selected], true
}

// ZoomSelected narrows the viewport to the selected record alone. The next
// render restores the full frame.
func (m *MapAdapter) ZoomSelected() {
	r, ok := m.Selected()
	if !ok {
		return
	}
	if vp, ok := geo.Frame([]geo.Point{{Lat: r.Lat, Lng: r.Lng}}); ok {
		m.viewport = vp
		m.focus = r.Name
	}
}

// CopySelected writes the selected record's name, coordinate and geohash to
// the system clipboard and returns the copied line.
func (m *MapAdapter) CopySelected() (string, error) {
	r, ok := m.Selected()
	if !ok {
		return "", errors.New("no record selected")
	}
	p := geo.Point{Lat: r.Lat, Lng: r.Lng}
	line := fmt.Sprintf("%s\t%.5f,%.5f\t%s", r.Name, r.Lat, r.Lng, geo.Geohash(p))
	if err := clipboard.WriteAll(line); err != nil {
		return "", fmt.Errorf("clipboard: %w", err)
	}
	return line, nil
}

func (m *MapAdapter) SetSize(width, height int) {
	m.width, m.height = width, height
}

func (m *MapAdapter) ThemeChanged(theme Theme) {
	m.theme = theme
}

// ExportImage saves the current frame as an image snapshot.
func (m *MapAdapter) ExportImage(opts export.SnapshotOptions) error {
	if !m.hasFrame {
		return errors.New("no mappable records to export")
	}
	points := make([]export.MapPoint, len(m.plotted))
	for i, r := range m.plotted {
		points[i] = export.MapPoint{Name: r.Name, Point: geo.Point{Lat: r.Lat, Lng: r.Lng}}
	}
	opts.DarkMode = m.theme.Dark
	return export.SaveMapSnapshot(opts, points, m.viewport)
}

// View renders the grid plus a two-line status footer.
func (m *MapAdapter) View() string {
	if len(m.records) == 0 {
		return emptyState(m.theme, m.width, m.height,
			"No records match the current filter",
			"esc clears the filter")
	}
	if !m.hasFrame {
		return emptyState(m.theme, m.width, m.height,
			fmt.Sprintf("None of the %d matching records carry a coordinate", len(m.records)),
			"switch to the regions view for a breakdown")
	}

	gridW := m.width - 2 // border columns
	gridH := m.height - 4 // border rows + status footer
	if gridW < 4 || gridH < 2 {
		return m.statusLine()
	}

	grid := make([][]rune, gridH)
	for y := range grid {
		grid[y] = make([]rune, gridW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	var selX, selY = -1, -1
	for i, r := range m.plotted {
		x, y, ok := m.viewport.Project(geo.Point{Lat: r.Lat, Lng: r.Lng}, gridW, gridH)
		if !ok {
			continue
		}
		grid[y][x] = glyphPoint
		if i == m.selected {
			selX, selY = x, y
		}
	}
	if selY >= 0 {
		grid[selY][selX] = glyphSelected
	}

	border := m.theme.Border
	var b strings.Builder
	b.WriteString(border.Render("┌" + strings.Repeat("─", gridW) + "┐"))
	b.WriteByte('\n')
	for y := range grid {
		b.WriteString(border.Render("│"))
		b.WriteString(m.theme.Accent.Render(string(grid[y])))
		b.WriteString(border.Render("│"))
		b.WriteByte('\n')
	}
	b.WriteString(border.Render("└" + strings.Repeat("─", gridW) + "┘"))
	b.WriteByte('\n')
	b.WriteString(m.statusLine())

	return b.String()
}

func (m *MapAdapter) statusLine() string {
	latSpan, lngSpan := m.viewport.Span()
	summary := fmt.Sprintf("%d plotted · %d without coordinate · span %.1f°×%.1f°",
		len(m.plotted), len(m.records)-len(m.plotted), latSpan, lngSpan)
	if m.focus != "" {
		summary += " · focus: " + m.focus
	}

	lines := []string{m.theme.Muted.Render(truncate(summary, m.width))}
	if r, ok := m.Selected(); ok {
		p := geo.Point{Lat: r.Lat, Lng: r.Lng}
		detail := fmt.Sprintf("%c %s — %s · %.4f, %.4f · %s",
			glyphSelected, r.Name, r.Location(), r.Lat, r.Lng, geo.Geohash(p))
		lines = append(lines, m.theme.Text.Render(truncate(detail, m.width)))
	}
	return strings.Join(lines, "\n")
}

func pointsOf(records []model.Record) []geo.Point {
	pts := make([]geo.Point, len(records))
	for i, r := range records {
		pts[i] = geo.Point{Lat: r.Lat, Lng: r.Lng}
	}
	return pts
}
