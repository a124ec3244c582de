package ui

import (
	"github.com/mvdleeuw/geoscope/pkg/export"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// Adapter is the uniform contract every visualization implements. The
// controller drives the lifecycle: construct lazily, Activate on switch-in,
// Render on every committed data change while live, Cleanup on switch-out.
//
// Cleanup must be idempotent and must release anything Activate acquired;
// after Cleanup the adapter may be activated again. Render is only called
// between Activate and Cleanup. An adapter whose filtered input is empty must
// render an explicit no-results state, never a blank body.
type Adapter interface {
	// Activate prepares the adapter for display. An error marks the view
	// degraded; the controller will not Render it.
	Activate() error

	// Render ingests a committed store snapshot.
	Render(snap store.Snapshot)

	// View returns the adapter's current frame.
	View() string

	// Cleanup tears down whatever Activate set up. Safe to call repeatedly
	// and on a never-activated adapter.
	Cleanup()

	// SetSize informs the adapter of its drawing area in cells.
	SetSize(width, height int)

	// ThemeChanged swaps the style set. Purely presentational: it must not
	// touch data or filter state.
	ThemeChanged(theme Theme)
}

// ImageExporter is the optional capability of saving the current view as an
// image file. Views without a meaningful static form simply don't implement
// it and the export key reports that instead of failing.
type ImageExporter interface {
	ExportImage(opts export.SnapshotOptions) error
}
