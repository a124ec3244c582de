package ui

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvdleeuw/geoscope/pkg/config"
	"github.com/mvdleeuw/geoscope/pkg/filter"
	"github.com/mvdleeuw/geoscope/pkg/loader"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	m := New(Options{DataPath: "records.csv", Config: config.DefaultConfig(), Dark: true})
	m.width, m.height = 100, 30
	m.ready = true
	return m
}

func loadTestModel(t *testing.T) *Model {
	t.Helper()
	m := newTestModel(t)
	next, _ := m.Update(dataLoadedMsg{records: testRecords()})
	return next.(*Model)
}

func TestModel_ThemeToggleLeavesFilterStateAlone(t *testing.T) {
	m := loadTestModel(t)

	before := m.store.Snapshot()
	m.toggleTheme()

	after := m.store.Snapshot()
	if after.Generation != before.Generation {
		t.Errorf("theme toggle changed generation: %d -> %d", before.Generation, after.Generation)
	}
	if len(after.Filtered) != len(before.Filtered) {
		t.Error("theme toggle changed the filtered set")
	}
	if m.dark {
		t.Error("toggle did not flip the mode")
	}

	// The choice was persisted.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DarkMode == nil || *cfg.DarkMode != m.dark {
		t.Errorf("persisted dark mode = %v, want %v", cfg.DarkMode, m.dark)
	}
}

func TestModel_FatalLoadShowsErrorScreen(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(dataLoadFailedMsg{err: os.ErrNotExist})
	m = next.(*Model)

	view := m.View()
	if !strings.Contains(view, "could not load dataset") {
		t.Errorf("fatal screen missing:\n%s", view)
	}
	if !strings.Contains(view, "press any key to exit") {
		t.Error("fatal screen missing exit hint")
	}

	// Any key quits.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestModel_ReloadFailureIsNonFatal(t *testing.T) {
	m := loadTestModel(t)

	next, _ := m.Update(dataLoadFailedMsg{err: errors.New("disk gone"), reloaded: true})
	m = next.(*Model)

	if m.fatal != nil {
		t.Error("reload failure must not be fatal")
	}
	if !m.statusErr || !strings.Contains(m.status, "reload failed") {
		t.Errorf("status = %q, want reload failure notice", m.status)
	}
	if len(m.store.Raw()) != len(testRecords()) {
		t.Error("previous dataset lost on failed reload")
	}
}

func TestModel_CycleRegion(t *testing.T) {
	m := loadTestModel(t)

	m.cycleRegion(1)
	if m.criteria.Region != "CA" {
		t.Errorf("first cycle = %q, want CA", m.criteria.Region)
	}
	m.cycleRegion(1)
	if m.criteria.Region != "NY" {
		t.Errorf("second cycle = %q, want NY", m.criteria.Region)
	}
	m.cycleRegion(1)
	if m.criteria.Region != filter.AllRegions {
		t.Errorf("third cycle = %q, want all regions", m.criteria.Region)
	}
	m.cycleRegion(-1)
	if m.criteria.Region != "NY" {
		t.Errorf("reverse cycle = %q, want NY", m.criteria.Region)
	}
}

func TestModel_DebounceDropsStaleTicks(t *testing.T) {
	m := loadTestModel(t)
	m.debounceSeq = 5

	if _, cmd := m.Update(debounceMsg{seq: 3}); cmd != nil {
		t.Error("stale debounce tick must not apply a filter")
	}
	if _, cmd := m.Update(debounceMsg{seq: 5}); cmd == nil {
		t.Error("current debounce tick must apply the filter")
	}
}

func TestModel_DataChangedNoticeWithoutReload(t *testing.T) {
	m := loadTestModel(t)

	next, _ := m.Update(dataChangedMsg{})
	m = next.(*Model)

	if !m.dataStale {
		t.Error("stale flag not set")
	}
	if len(m.store.Raw()) != len(testRecords()) {
		t.Error("change notice must not reload by itself")
	}
	if !strings.Contains(m.filterBarView(), "R reloads") {
		t.Error("stale notice missing from filter bar")
	}
}

func TestModel_SyncControlsAfterFocus(t *testing.T) {
	m := loadTestModel(t)
	m.ctrl.SwitchTo(store.ViewCategorical)

	pending := m.bus.Publish(FocusRequest{Region: "NY"})
	pending.Task.Wait()

	if m.regionIdx == 0 {
		t.Error("region widget not synced to the published criteria")
	}
	if m.criteria.Region != "NY" {
		t.Errorf("criteria region = %q, want NY", m.criteria.Region)
	}
}

func TestFriendlyLoadError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{os.ErrNotExist, loader.DataPathEnvVar},
		{loader.ErrEmptyDataset, "no usable records"},
		{errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		got := friendlyLoadError(tc.err, "data.csv")
		if !strings.Contains(got, tc.want) {
			t.Errorf("friendlyLoadError(%v) = %q, want mention of %q", tc.err, got, tc.want)
		}
	}
}
