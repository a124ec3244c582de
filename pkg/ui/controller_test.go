package ui

import (
	"errors"
	"testing"

	"github.com/mvdleeuw/geoscope/pkg/model"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// stubAdapter records lifecycle calls.
type stubAdapter struct {
	activates int
	cleanups  int
	renders   int
	themes    int
	active    bool

	failActivate error
}

func (s *stubAdapter) Activate() error {
	s.activates++
	if s.failActivate != nil {
		return s.failActivate
	}
	s.active = true
	return nil
}

func (s *stubAdapter) Render(store.Snapshot) { s.renders++ }
func (s *stubAdapter) View() string          { return "stub" }
func (s *stubAdapter) Cleanup() {
	s.cleanups++
	s.active = false
}
func (s *stubAdapter) SetSize(int, int)   {}
func (s *stubAdapter) ThemeChanged(Theme) { s.themes++ }

func testRecords() []model.Record {
	return []model.Record{
		{Name: "Alice", City: "Los Angeles", Region: "CA", Lat: 34.05, Lng: -118.24},
		{Name: "Bob", City: "San Francisco", Region: "CA", Lat: 37.77, Lng: -122.42},
		{Name: "Cara", City: "New York", Region: "NY", Lat: 40.71, Lng: -74.00},
		{Name: "Dan", City: "Nowhere"}, // no coordinate, no region
	}
}

func newTestController(t *testing.T) (*store.Store, *Controller, map[store.ViewID]*stubAdapter) {
	t.Helper()
	s := store.New()
	s.SetRaw(testRecords())

	c := NewController(s, TestTheme())
	stubs := make(map[store.ViewID]*stubAdapter)
	for i := 0; i < store.NumViews; i++ {
		v := store.ViewID(i)
		stub := &stubAdapter{}
		stubs[v] = stub
		c.SetFactory(v, func(Theme) Adapter { return stub })
	}
	return s, c, stubs
}

func TestController_LazyConstruction(t *testing.T) {
	s := store.New()
	s.SetRaw(testRecords())
	c := NewController(s, TestTheme())

	built := 0
	stub := &stubAdapter{}
	c.SetFactory(store.ViewCategorical, func(Theme) Adapter {
		built++
		return stub
	})

	if c.Constructed(store.ViewCategorical) {
		t.Fatal("adapter constructed before first switch")
	}

	c.SwitchTo(store.ViewCategorical)
	c.SwitchTo(store.ViewMap)
	c.SwitchTo(store.ViewCategorical)

	if built != 1 {
		t.Errorf("factory ran %d times, want 1", built)
	}
}

func TestController_ExactlyOneActive(t *testing.T) {
	_, c, stubs := newTestController(t)

	c.SwitchTo(store.ViewMap)
	c.SwitchTo(store.ViewCategorical)
	c.SwitchTo(store.ViewRelationship)

	activeCount := 0
	for _, stub := range stubs {
		if stub.active {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("%d adapters active, want exactly 1", activeCount)
	}
	if !stubs[store.ViewRelationship].active {
		t.Error("last switched view is not the active one")
	}
	if stubs[store.ViewMap].cleanups != 1 || stubs[store.ViewCategorical].cleanups != 1 {
		t.Error("previous adapters were not cleaned up")
	}
}

func TestController_SwitchToActiveViewSkipsLifecycle(t *testing.T) {
	_, c, stubs := newTestController(t)

	c.SwitchTo(store.ViewMap)
	c.SwitchTo(store.ViewMap)
	c.SwitchTo(store.ViewMap)

	if got := stubs[store.ViewMap].activates; got != 1 {
		t.Errorf("activates = %d, want 1", got)
	}
	if got := stubs[store.ViewMap].cleanups; got != 0 {
		t.Errorf("cleanups = %d, want 0", got)
	}
	// The redundant switches still refresh the view.
	if got := stubs[store.ViewMap].renders; got != 3 {
		t.Errorf("renders = %d, want 3", got)
	}
}

func TestController_SwitchRendersFromSnapshot(t *testing.T) {
	_, c, stubs := newTestController(t)

	c.SwitchTo(store.ViewCategorical)
	if got := stubs[store.ViewCategorical].renders; got != 1 {
		t.Errorf("renders = %d, want 1", got)
	}

	c.RenderActive()
	if got := stubs[store.ViewCategorical].renders; got != 2 {
		t.Errorf("renders = %d, want 2", got)
	}
}

func TestController_ActivationFailureDegrades(t *testing.T) {
	_, c, stubs := newTestController(t)
	boom := errors.New("terminal too small")
	stubs[store.ViewRelationship].failActivate = boom

	c.SwitchTo(store.ViewRelationship)

	if err := c.ActiveFailure(); !errors.Is(err, boom) {
		t.Fatalf("ActiveFailure = %v, want %v", err, boom)
	}
	if _, ok := c.Active(); ok {
		t.Error("degraded view reported as active")
	}
	if stubs[store.ViewRelationship].renders != 0 {
		t.Error("degraded adapter must not be rendered")
	}

	// RenderActive on a degraded view stays a no-op.
	c.RenderActive()
	if stubs[store.ViewRelationship].renders != 0 {
		t.Error("RenderActive rendered a degraded view")
	}

	// Switching again retries activation.
	stubs[store.ViewRelationship].failActivate = nil
	c.SwitchTo(store.ViewRelationship)
	if err := c.ActiveFailure(); err != nil {
		t.Errorf("retry left failure in place: %v", err)
	}
	if _, ok := c.Active(); !ok {
		t.Error("recovered view not active")
	}
}

func TestController_CleanupIsIdempotent(t *testing.T) {
	_, c, stubs := newTestController(t)

	c.SwitchTo(store.ViewMap)
	c.CleanupAll()
	c.CleanupAll()

	if stubs[store.ViewMap].active {
		t.Error("adapter still active after CleanupAll")
	}
	// A never-activated adapter must tolerate Cleanup too.
	fresh := &stubAdapter{}
	fresh.Cleanup()
	fresh.Cleanup()
}

func TestController_ThemeChangedReachesConstructed(t *testing.T) {
	_, c, stubs := newTestController(t)

	c.SwitchTo(store.ViewMap)
	c.SwitchTo(store.ViewCategorical)
	c.ThemeChanged(NewTheme(false))

	if stubs[store.ViewMap].themes != 1 {
		t.Error("background adapter missed theme change")
	}
	if stubs[store.ViewCategorical].themes != 1 {
		t.Error("active adapter missed theme change")
	}
	if stubs[store.ViewRelationship].themes != 0 {
		t.Error("unconstructed adapter received theme change")
	}
}
