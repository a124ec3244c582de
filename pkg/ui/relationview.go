package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/mvdleeuw/geoscope/pkg/model"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// RelationAdapter shows co-location relationships in the filtered set:
// records sharing a city, grouped and counted. The report is built as
// markdown and rendered through glamour into a scrollable viewport; when
// rendering fails the raw markdown is shown instead.
type RelationAdapter struct {
	theme  Theme
	width  int
	height int
	active bool

	vp    viewport.Model
	count int
	empty bool
}

// NewRelationAdapter returns an inactive relationship adapter.
func NewRelationAdapter(theme Theme) *RelationAdapter {
	return &RelationAdapter{theme: theme, vp: viewport.New(0, 0)}
}

func (a *RelationAdapter) Activate() error {
	a.active = true
	return nil
}

func (a *RelationAdapter) Cleanup() {
	a.active = false
}

// IsActive reports whether the adapter is between Activate and Cleanup.
func (a *RelationAdapter) IsActive() bool { return a.active }

func (a *RelationAdapter) Render(snap store.Snapshot) {
	a.count = len(snap.Filtered)
	a.empty = a.count == 0
	if a.empty {
		return
	}

	md := relationMarkdown(snap.Filtered)
	a.vp.SetContent(a.renderMarkdown(md))
	a.vp.GotoTop()
}

// renderMarkdown runs glamour; a renderer failure degrades to the raw
// markdown rather than losing the view.
func (a *RelationAdapter) renderMarkdown(md string) string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(a.theme.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// ScrollDown scrolls the report one line down.
func (a *RelationAdapter) ScrollDown() { a.vp.LineDown(1) }

// ScrollUp scrolls the report one line up.
func (a *RelationAdapter) ScrollUp() { a.vp.LineUp(1) }

func (a *RelationAdapter) SetSize(width, height int) {
	a.width, a.height = width, height
	a.vp.Width = width
	a.vp.Height = height
}

func (a *RelationAdapter) ThemeChanged(theme Theme) {
	a.theme = theme
}

func (a *RelationAdapter) View() string {
	if a.empty {
		return emptyState(a.theme, a.width, a.height,
			"No records match the current filter",
			"esc clears the filter")
	}
	return a.vp.View()
}

// relationMarkdown builds the co-location report. Cities are only listed
// when at least two records share them; singletons carry no relationship.
func relationMarkdown(records []model.Record) string {
	byCity := make(map[string][]string)
	regions := make(map[string]bool)
	for _, r := range records {
		city := r.DisplayCity()
		byCity[city] = append(byCity[city], r.Name)
		regions[r.DisplayRegion()] = true
	}

	cities := make([]string, 0, len(byCity))
	for city, names := range byCity {
		if len(names) >= 2 {
			cities = append(cities, city)
		}
	}
	sort.Slice(cities, func(i, j int) bool {
		if len(byCity[cities[i]]) != len(byCity[cities[j]]) {
			return len(byCity[cities[i]]) > len(byCity[cities[j]])
		}
		return cities[i] < cities[j]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# Relationships\n\n%d records · %d cities · %d regions\n\n",
		len(records), len(byCity), len(regions))

	if len(cities) == 0 {
		b.WriteString("No two records in the current selection share a city.\n")
		return b.String()
	}

	b.WriteString("## Shared cities\n\n")
	for _, city := range cities {
		names := byCity[city]
		fmt.Fprintf(&b, "**%s** (%d)\n\n", city, len(names))
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}
	return b.String()
}
