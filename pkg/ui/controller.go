package ui

import (
	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// Controller owns the view adapters and enforces the lifecycle invariant: at
// any moment at most one adapter is live. Adapters are constructed on first
// switch, kept (with their presentation state) across switches, and rendered
// only while live.
type Controller struct {
	store     *store.Store
	theme     Theme
	width     int
	height    int
	factories map[store.ViewID]func(Theme) Adapter
	adapters  map[store.ViewID]Adapter
	failed    map[store.ViewID]error
}

// NewController wires the default adapter set against the given store.
func NewController(s *store.Store, theme Theme) *Controller {
	c := &Controller{
		store:    s,
		theme:    theme,
		adapters: make(map[store.ViewID]Adapter),
		failed:   make(map[store.ViewID]error),
	}
	c.factories = map[store.ViewID]func(Theme) Adapter{
		store.ViewMap:          func(t Theme) Adapter { return NewMapAdapter(t) },
		store.ViewCategorical:  func(t Theme) Adapter { return NewChartAdapter(t) },
		store.ViewRelationship: func(t Theme) Adapter { return NewRelationAdapter(t) },
	}
	return c
}

// SetFactory replaces the constructor for one view. Used by tests to inject
// instrumented adapters; must be called before the view is first activated.
func (c *Controller) SetFactory(v store.ViewID, fn func(Theme) Adapter) {
	c.factories[v] = fn
}

// SwitchTo makes v the live view: the previous adapter is cleaned up, v's
// adapter is constructed if this is its first activation, activated, and
// rendered from the current snapshot. Switching to the already-live view
// skips the lifecycle but still re-renders. An Activate error leaves the
// view degraded; the failure is remembered and surfaced through
// ActiveFailure.
func (c *Controller) SwitchTo(v store.ViewID) {
	cur := c.store.ActiveView()
	if cur == v && c.adapters[v] != nil && c.failed[v] == nil {
		c.adapters[v].Render(c.store.Snapshot())
		return
	}

	if prev := c.adapters[cur]; prev != nil {
		prev.Cleanup()
	}

	c.store.SetActiveView(v)

	a := c.adapters[v]
	if a == nil {
		factory := c.factories[v]
		if factory == nil {
			return
		}
		a = factory(c.theme)
		a.SetSize(c.width, c.height)
		c.adapters[v] = a
	}

	if err := a.Activate(); err != nil {
		debug.Log("view %s activation failed: %v", v, err)
		c.failed[v] = err
		return
	}
	delete(c.failed, v)
	a.Render(c.store.Snapshot())
}

// RenderActive pushes the current snapshot into the live adapter. No-op when
// the live view is unconstructed or degraded.
func (c *Controller) RenderActive() {
	v := c.store.ActiveView()
	a := c.adapters[v]
	if a == nil || c.failed[v] != nil {
		return
	}
	a.Render(c.store.Snapshot())
}

// Active returns the live adapter, or false when it is unconstructed or
// degraded.
func (c *Controller) Active() (Adapter, bool) {
	v := c.store.ActiveView()
	a := c.adapters[v]
	if a == nil || c.failed[v] != nil {
		return nil, false
	}
	return a, true
}

// ActiveFailure returns the activation error of the live view, if any.
func (c *Controller) ActiveFailure() error {
	return c.failed[c.store.ActiveView()]
}

// MapAdapter returns the map adapter if it has been constructed. The focus
// bus needs the concrete type for viewport framing.
func (c *Controller) MapAdapter() (*MapAdapter, bool) {
	a, ok := c.adapters[store.ViewMap].(*MapAdapter)
	return a, ok
}

// Constructed reports whether the view's adapter has been built yet.
func (c *Controller) Constructed(v store.ViewID) bool {
	return c.adapters[v] != nil
}

// SetSize propagates the drawing area to every constructed adapter.
func (c *Controller) SetSize(width, height int) {
	c.width, c.height = width, height
	for _, a := range c.adapters {
		a.SetSize(width, height)
	}
}

// ThemeChanged propagates a theme swap to every constructed adapter and
// re-renders the live one so the change is immediately visible.
func (c *Controller) ThemeChanged(theme Theme) {
	c.theme = theme
	for _, a := range c.adapters {
		a.ThemeChanged(theme)
	}
}

// CleanupAll tears down every constructed adapter. Called once at shutdown.
func (c *Controller) CleanupAll() {
	for _, a := range c.adapters {
		a.Cleanup()
	}
}
