// Package ui is the terminal dashboard: a bubbletea program around the
// store, the filter engine, the view controller and the focus bus. The root
// model owns the authoritative filter criteria and every widget; adapters
// are pure presenters driven by the controller.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvdleeuw/geoscope/internal/datasource"
	"github.com/mvdleeuw/geoscope/pkg/config"
	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/export"
	"github.com/mvdleeuw/geoscope/pkg/filter"
	"github.com/mvdleeuw/geoscope/pkg/loader"
	"github.com/mvdleeuw/geoscope/pkg/model"
	"github.com/mvdleeuw/geoscope/pkg/store"
	"github.com/mvdleeuw/geoscope/pkg/version"
	"github.com/mvdleeuw/geoscope/pkg/watcher"
)

// debounceDelay coalesces keystrokes in the filter input before issuing a
// filter operation.
const debounceDelay = 200 * time.Millisecond

// statusTimeout is how long transient status notices stay visible.
const statusTimeout = 4 * time.Second

// chromeLines is the vertical space taken by header, filter bar and footer.
const chromeLines = 4

// Options configures the root model.
type Options struct {
	DataPath string
	Config   config.Config
	Dark     bool
	Watcher  *watcher.Watcher // optional change watcher, already started
}

// Messages.
type (
	dataLoadedMsg struct {
		records  []model.Record
		reloaded bool
	}
	dataLoadFailedMsg struct {
		err      error
		reloaded bool
	}
	filterDoneMsg  struct{ task *filter.Task }
	focusDoneMsg   struct{ pending *PendingFocus }
	debounceMsg    struct{ seq int }
	dataChangedMsg struct{}
	clearStatusMsg struct{ seq int }
)

// Model is the bubbletea root model.
type Model struct {
	store  *store.Store
	engine *filter.Engine
	ctrl   *Controller
	bus    *FocusBus

	cfg      config.Config
	dark     bool
	theme    Theme
	dataPath string
	watch    *watcher.Watcher

	criteria    filter.Criteria
	input       textinput.Model
	filtering   bool
	regionIdx   int // 0 means all regions
	debounceSeq int

	spin      spinner.Model
	width     int
	height    int
	ready     bool
	loaded    bool
	fatal     error
	dataStale bool
	quitting  bool

	status    string
	statusErr bool
	statusSeq int
}

// New builds the dashboard model. The program starts unloaded; Init kicks
// off the dataset load.
func New(opts Options) *Model {
	s := store.New()
	theme := NewTheme(opts.Dark)

	input := textinput.New()
	input.Placeholder = "name or re:pattern"
	input.Prompt = "/"
	input.CharLimit = 64
	input.Width = 28

	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	spin.Style = theme.Accent

	m := &Model{
		store:    s,
		engine:   filter.NewEngine(s),
		ctrl:     NewController(s, theme),
		cfg:      opts.Config,
		dark:     opts.Dark,
		theme:    theme,
		dataPath: opts.DataPath,
		watch:    opts.Watcher,
		input:    input,
		spin:     spin,
	}
	m.bus = NewFocusBus(s, m.engine, m.ctrl,
		func() filter.Criteria { return m.criteria },
		func(c filter.Criteria) {
			m.criteria = c
			m.syncControls()
		})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadData(false), m.spin.Tick, m.waitForChange())
}

// loadData loads the dataset off the update loop.
func (m *Model) loadData(reloaded bool) tea.Cmd {
	path := m.dataPath
	return func() tea.Msg {
		records, err := loader.Load(context.Background(), path)
		if err != nil {
			return dataLoadFailedMsg{err: err, reloaded: reloaded}
		}
		return dataLoadedMsg{records: records, reloaded: reloaded}
	}
}

// waitForChange blocks on the watcher's change channel. Re-armed after every
// received change.
func (m *Model) waitForChange() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watch.Changed()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dataChangedMsg{}
	}
}

// applyFilter issues the current criteria. The generation token is claimed
// before this returns, so a later call always supersedes an earlier one.
func (m *Model) applyFilter() tea.Cmd {
	task := m.engine.Apply(context.Background(), m.criteria)
	return func() tea.Msg {
		task.Wait()
		return filterDoneMsg{task: task}
	}
}

// publishFocus publishes a focus request and schedules its completion.
func (m *Model) publishFocus(req FocusRequest) tea.Cmd {
	pending := m.bus.Publish(req)
	return func() tea.Msg {
		pending.Task.Wait()
		return focusDoneMsg{pending: pending}
	}
}

// setStatus shows a transient notice. The returned command clears it after
// the timeout unless a newer notice replaced it.
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// syncControls realigns the widgets with the authoritative criteria after it
// was mutated from outside the input path (region cycling, focus bus).
func (m *Model) syncControls() {
	m.input.SetValue(m.criteria.Name)
	m.regionIdx = 0
	for i, cat := range m.store.Snapshot().Categories {
		if cat == m.criteria.Region {
			m.regionIdx = i + 1
			break
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.ctrl.SetSize(m.width, m.height-chromeLines)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		m.loaded = true
		m.fatal = nil
		m.dataStale = false
		m.store.SetRaw(msg.records)
		if m.ctrl.Constructed(m.store.ActiveView()) {
			m.ctrl.RenderActive()
		} else {
			m.ctrl.SwitchTo(m.store.ActiveView())
		}
		var cmds []tea.Cmd
		if msg.reloaded {
			cmds = append(cmds, m.setStatus(fmt.Sprintf("reloaded %d records", len(msg.records)), false))
			if !m.criteria.MatchAll() {
				cmds = append(cmds, m.applyFilter())
			}
		}
		return m, tea.Batch(cmds...)

	case dataLoadFailedMsg:
		if !msg.reloaded {
			m.fatal = msg.err
			return m, nil
		}
		return m, m.setStatus("reload failed: "+msg.err.Error(), true)

	case debounceMsg:
		if msg.seq == m.debounceSeq {
			return m, m.applyFilter()
		}
		return m, nil

	case filterDoneMsg:
		if err := msg.task.Err(); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		if msg.task.Committed() {
			m.ctrl.RenderActive()
		}
		return m, nil

	case focusDoneMsg:
		outcome, err := m.bus.Complete(msg.pending)
		switch outcome {
		case FocusFailed:
			return m, m.setStatus("focus failed: "+err.Error(), true)
		case FocusApplied:
			return m, nil
		default: // superseded, drop silently
			return m, nil
		}

	case dataChangedMsg:
		m.dataStale = true
		return m, tea.Batch(
			m.setStatus("dataset changed on disk — press R to reload", false),
			m.waitForChange(),
		)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fatal != nil {
		m.quitting = true
		return m, tea.Quit
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m.shutdown()

	case "/":
		m.filtering = true
		return m, m.input.Focus()

	case "esc":
		if m.criteria.MatchAll() {
			return m, nil
		}
		m.criteria = filter.Criteria{}
		m.syncControls()
		return m, m.applyFilter()

	case "tab":
		m.ctrl.SwitchTo(m.store.ActiveView().Next())
		return m, nil

	case "shift+tab":
		m.ctrl.SwitchTo(m.store.ActiveView().Prev())
		return m, nil

	case "1":
		m.ctrl.SwitchTo(store.ViewMap)
		return m, nil

	case "2":
		m.ctrl.SwitchTo(store.ViewCategorical)
		return m, nil

	case "3":
		m.ctrl.SwitchTo(store.ViewRelationship)
		return m, nil

	case "s":
		return m, m.cycleRegion(1)

	case "S":
		return m, m.cycleRegion(-1)

	case "t":
		return m, m.toggleTheme()

	case "e":
		return m, m.exportActive()

	case "y":
		return m, m.copySelected()

	case "R":
		if !m.loaded {
			return m, nil
		}
		return m, tea.Batch(m.setStatus("reloading…", false), m.loadData(true))

	case "up", "k":
		m.moveSelection(-1)
		return m, nil

	case "down", "j":
		m.moveSelection(1)
		return m, nil

	case "enter":
		return m.activateSelection()
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.input.Blur()
		return m, nil

	case "enter":
		m.filtering = false
		m.input.Blur()
		m.criteria.Name = m.input.Value()
		m.debounceSeq++ // cancel any pending debounce
		return m, m.applyFilter()

	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		m.criteria.Name = m.input.Value()
		m.debounceSeq++
		seq := m.debounceSeq
		return m, tea.Batch(cmd, tea.Tick(debounceDelay, func(time.Time) tea.Msg {
			return debounceMsg{seq: seq}
		}))
	}
}

func (m *Model) shutdown() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.CleanupAll()
	if m.watch != nil {
		m.watch.Stop()
	}
	return m, tea.Quit
}

// cycleRegion steps the region criterion through "all" plus every known
// region and applies the result immediately; region changes are discrete,
// not typed, so they skip the debounce.
func (m *Model) cycleRegion(dir int) tea.Cmd {
	cats := m.store.Snapshot().Categories
	n := len(cats) + 1
	m.regionIdx = ((m.regionIdx+dir)%n + n) % n
	if m.regionIdx == 0 {
		m.criteria.Region = filter.AllRegions
	} else {
		m.criteria.Region = cats[m.regionIdx-1]
	}
	return m.applyFilter()
}

// toggleTheme flips the theme, persists the choice and restyles every
// constructed adapter. Purely presentational: filter state and the
// generation counter are untouched.
func (m *Model) toggleTheme() tea.Cmd {
	m.dark = !m.dark
	m.theme = NewTheme(m.dark)
	m.spin.Style = m.theme.Accent
	m.ctrl.ThemeChanged(m.theme)

	dark := m.dark
	m.cfg.DarkMode = &dark
	if err := config.Save(m.cfg); err != nil {
		debug.Log("theme save failed: %v", err)
		return m.setStatus("theme applied for this session only: "+err.Error(), false)
	}
	return nil
}

func (m *Model) exportActive() tea.Cmd {
	a, ok := m.ctrl.Active()
	if !ok {
		return m.setStatus("nothing to export", true)
	}
	exp, ok := a.(ImageExporter)
	if !ok {
		return m.setStatus("this view has no image export", false)
	}

	view := m.store.ActiveView()
	path := fmt.Sprintf("geoscope-%s-%s.svg",
		strings.ToLower(view.String()), time.Now().Format("20060102-150405"))
	opts := export.SnapshotOptions{
		Path:  path,
		Title: "geoscope — " + view.String(),
	}
	if err := exp.ExportImage(opts); err != nil {
		return m.setStatus("export failed: "+err.Error(), true)
	}
	return m.setStatus("saved "+path, false)
}

func (m *Model) copySelected() tea.Cmd {
	a, ok := m.ctrl.Active()
	if !ok {
		return nil
	}
	ma, ok := a.(*MapAdapter)
	if !ok {
		return m.setStatus("copy works on the map view", false)
	}
	line, err := ma.CopySelected()
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	return m.setStatus("copied: "+line, false)
}

func (m *Model) moveSelection(dir int) {
	a, ok := m.ctrl.Active()
	if !ok {
		return
	}
	switch v := a.(type) {
	case *MapAdapter:
		if dir > 0 {
			v.SelectNext()
		} else {
			v.SelectPrev()
		}
	case *ChartAdapter:
		if dir > 0 {
			v.SelectNext()
		} else {
			v.SelectPrev()
		}
	case *RelationAdapter:
		if dir > 0 {
			v.ScrollDown()
		} else {
			v.ScrollUp()
		}
	}
}

// activateSelection is the enter key: on the chart it publishes a focus
// request for the selected region, on the map it zooms to the selected
// record.
func (m *Model) activateSelection() (tea.Model, tea.Cmd) {
	a, ok := m.ctrl.Active()
	if !ok {
		return m, nil
	}
	switch v := a.(type) {
	case *ChartAdapter:
		region, ok := v.SelectedRegion()
		if !ok {
			return m, m.setStatus("records without a region cannot be focused", false)
		}
		return m, m.publishFocus(FocusRequest{Region: region})
	case *MapAdapter:
		v.ZoomSelected()
	}
	return m, nil
}

// --- rendering ---------------------------------------------------------------

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.fatal != nil {
		return m.fatalView()
	}
	if !m.ready {
		return ""
	}

	header := m.headerView()
	filterBar := m.filterBarView()
	body := m.bodyView()
	footer := m.footerView()

	bodyHeight := m.height - chromeLines
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.Place(m.width, bodyHeight, lipgloss.Left, lipgloss.Top, body)

	return strings.Join([]string{header, filterBar, body, footer}, "\n")
}

func (m *Model) fatalView() string {
	lines := []string{
		m.theme.Title.Render("geoscope"),
		"",
		m.theme.Error.Render("could not load dataset"),
		m.theme.Text.Render(friendlyLoadError(m.fatal, m.dataPath)),
		"",
		m.theme.Muted.Render("press any key to exit"),
	}
	body := strings.Join(lines, "\n")
	if m.ready {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (m *Model) headerView() string {
	parts := []string{m.theme.Title.Render("geoscope")}

	active := m.store.ActiveView()
	for i := 0; i < store.NumViews; i++ {
		v := store.ViewID(i)
		label := fmt.Sprintf("%d·%s", i+1, v.String())
		if v == active {
			parts = append(parts, m.theme.TabActive.Render(label))
		} else {
			parts = append(parts, m.theme.TabInactive.Render(label))
		}
	}

	used := 0
	for i, p := range parts {
		if i > 0 {
			used += 2
		}
		used += lipgloss.Width(p)
	}
	if remaining := m.width - used - 2; remaining >= 8 {
		snap := m.store.Snapshot()
		summary := fmt.Sprintf("%d/%d records · v%s", len(snap.Filtered), len(snap.Raw), version.Version)
		parts = append(parts, m.theme.Muted.Render(truncate(summary, remaining)))
	}

	return fitLine(parts, m.width)
}

func (m *Model) filterBarView() string {
	region := "all regions"
	if m.criteria.Region != filter.AllRegions {
		region = m.criteria.Region
	}

	parts := []string{
		m.input.View(),
		m.theme.Muted.Render("region:") + " " + m.theme.Accent.Render(truncate(region, 24)),
	}
	if m.store.Busy() {
		parts = append(parts, m.spin.View()+m.theme.Muted.Render(" filtering"))
	}
	if m.dataStale {
		parts = append(parts, m.theme.Warning.Render("dataset changed — R reloads"))
	}
	return fitLine(parts, m.width)
}

func (m *Model) bodyView() string {
	if !m.loaded {
		return lipgloss.Place(m.width, m.height-chromeLines, lipgloss.Center, lipgloss.Center,
			m.spin.View()+" "+m.theme.Muted.Render("loading dataset…"))
	}
	if err := m.ctrl.ActiveFailure(); err != nil {
		return lipgloss.Place(m.width, m.height-chromeLines, lipgloss.Center, lipgloss.Center,
			m.theme.Error.Render("view failed: "+err.Error())+"\n"+
				m.theme.Muted.Render("press 1 to return to the map"))
	}
	if a, ok := m.ctrl.Active(); ok {
		return a.View()
	}
	return ""
}

func (m *Model) footerView() string {
	hints := "/ filter · s region · tab views · ↑↓ select · enter focus · t theme · e export · y copy · R reload · q quit"
	lines := []string{m.theme.Muted.Render(truncate(hints, m.width))}

	switch {
	case m.statusErr:
		lines = append(lines, m.theme.Error.Render(truncate(m.status, m.width)))
	case m.status != "":
		lines = append(lines, m.theme.Success.Render(truncate(m.status, m.width)))
	default:
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// friendlyLoadError maps load failures onto actionable one-liners.
func friendlyLoadError(err error, path string) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("%s does not exist — pass --data or set %s", path, loader.DataPathEnvVar)
	case errors.Is(err, datasource.ErrUnsupportedFormat):
		return fmt.Sprintf("%s: unsupported format (csv, json, xlsx and sqlite are supported)", path)
	case errors.Is(err, loader.ErrEmptyDataset):
		return fmt.Sprintf("%s parsed but contains no usable records", path)
	default:
		return err.Error()
	}
}
